package libobs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yutopp/go-rtmp"
	rtmpmsg "github.com/yutopp/go-rtmp/message"
)

const defaultRTMPPort = "1935"

// ErrProbe is matched by every ProbeRTMP failure.
var ErrProbe = errors.New("libobs: rtmp server probe failed")

// ProbeOptions configures ProbeRTMP.
type ProbeOptions struct {
	// Timeout bounds the whole probe. Zero means only ctx bounds it.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// ProbeError reports which step of the probe failed.
type ProbeError struct {
	Server string
	Step   string // "parse", "dial", "connect"
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("libobs: probe %s: %s: %v", e.Server, e.Step, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

func (e *ProbeError) Is(target error) bool { return target == ErrProbe }

// ProbeRTMP checks that an RTMP ingest accepts a handshake and a connect
// command for the URL's application before an rtmp_output is started
// against it. A failed stream start otherwise only surfaces as an
// asynchronous stop signal.
func ProbeRTMP(ctx context.Context, serverURL string, opts ProbeOptions) error {
	addr, app, err := parseRTMPURL(serverURL)
	if err != nil {
		return &ProbeError{Server: serverURL, Step: "parse", Err: err}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type result struct {
		step string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		client, err := rtmp.Dial("rtmp", addr, &rtmp.ConnConfig{
			Logger: logger.WithField("component", "rtmp-probe"),
		})
		if err != nil {
			done <- result{step: "dial", err: err}
			return
		}
		defer client.Close()

		err = client.Connect(&rtmpmsg.NetConnectionConnect{
			Command: rtmpmsg.NetConnectionConnectCommand{
				App:      app,
				Type:     "nonprivate",
				FlashVer: "FMLE/3.0 (compatible; FMSc/1.0)",
				TCURL:    serverURL,
			},
		})
		if err != nil {
			done <- result{step: "connect", err: err}
			return
		}
		done <- result{}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			logger.WithFields(logrus.Fields{
				"server": serverURL,
				"step":   r.step,
			}).WithError(r.err).Warn("rtmp probe failed")
			return &ProbeError{Server: serverURL, Step: r.step, Err: r.err}
		}
		logger.WithField("server", serverURL).Debug("rtmp probe succeeded")
		return nil
	case <-ctx.Done():
		return &ProbeError{Server: serverURL, Step: "dial", Err: ctx.Err()}
	}
}

// parseRTMPURL splits rtmp://host[:port]/app[/...] into a dial address and
// the application name.
func parseRTMPURL(serverURL string) (addr, app string, err error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "rtmp" {
		return "", "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", "", errors.New("missing host")
	}
	port := u.Port()
	if port == "" {
		port = defaultRTMPPort
	}
	app = strings.Trim(u.Path, "/")
	if app == "" {
		return "", "", errors.New("missing application name")
	}
	return net.JoinHostPort(u.Hostname(), port), app, nil
}

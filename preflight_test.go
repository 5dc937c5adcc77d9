package libobs

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yutopp/go-rtmp"
)

func startProbeServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	srv := rtmp.NewServer(&rtmp.ServerConfig{
		OnConnect: func(conn net.Conn) (io.ReadWriteCloser, *rtmp.ConnConfig) {
			return conn, &rtmp.ConnConfig{
				Handler: &rtmp.DefaultHandler{},
				ControlState: rtmp.StreamControlStateConfig{
					DefaultBandwidthWindowSize: 6 * 1024 * 1024,
				},
				Logger: logger,
			}
		},
	})
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })
	return ln.Addr().String()
}

func TestProbeRTMP(t *testing.T) {
	addr := startProbeServer(t)
	logger, _ := logtest.NewNullLogger()

	err := ProbeRTMP(context.Background(), "rtmp://"+addr+"/live", ProbeOptions{
		Timeout: 5 * time.Second,
		Logger:  logger,
	})
	require.NoError(t, err)
}

func TestProbeRTMPUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	logger, hook := logtest.NewNullLogger()
	err = ProbeRTMP(context.Background(), "rtmp://"+addr+"/live", ProbeOptions{
		Timeout: 2 * time.Second,
		Logger:  logger,
	})
	assert.ErrorIs(t, err, ErrProbe)
	var probeErr *ProbeError
	require.ErrorAs(t, err, &probeErr)
	assert.Equal(t, "dial", probeErr.Step)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestProbeRTMPContextCancelled(t *testing.T) {
	// A listener that never answers the handshake.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	logger, _ := logtest.NewNullLogger()
	err = ProbeRTMP(ctx, "rtmp://"+ln.Addr().String()+"/live", ProbeOptions{Logger: logger})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrProbe)
}

func TestParseRTMPURL(t *testing.T) {
	tests := []struct {
		in      string
		addr    string
		app     string
		wantErr bool
	}{
		{in: "rtmp://live.example.com/app", addr: "live.example.com:1935", app: "app"},
		{in: "rtmp://127.0.0.1:19350/live/", addr: "127.0.0.1:19350", app: "live"},
		{in: "rtmp://[::1]/a/b", addr: "[::1]:1935", app: "a/b"},
		{in: "rtmps://live.example.com/app", wantErr: true},
		{in: "http://live.example.com/app", wantErr: true},
		{in: "rtmp://live.example.com", wantErr: true},
		{in: "rtmp:///app", wantErr: true},
		{in: "://bad", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			addr, app, err := parseRTMPURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, addr)
			assert.Equal(t, tt.app, app)
		})
	}
}

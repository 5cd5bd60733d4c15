package testtypes

import (
	"context"
	"sync"
)

// CloseLog records the order services are closed in.
type CloseLog struct {
	mu     sync.Mutex
	closed []string
}

func (l *CloseLog) Add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = append(l.closed, name)
}

func (l *CloseLog) Closed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.closed...)
}

// ConnA, ConnB, ConnC and ConnD implement each supported Close signature.

type ConnA struct {
	Log *CloseLog
}

func (c *ConnA) Close(context.Context) error {
	c.Log.Add("a")
	return nil
}

type ConnB struct {
	Log *CloseLog
}

func (c *ConnB) Close(context.Context) {
	c.Log.Add("b")
}

type ConnC struct {
	Log *CloseLog
}

func (c *ConnC) Close() error {
	c.Log.Add("c")
	return nil
}

type ConnD struct {
	Log *CloseLog
}

func (c *ConnD) Close() {
	c.Log.Add("d")
}

// Server stops with Shutdown instead of Close.
type Server struct {
	Log *CloseLog
}

func (s *Server) Shutdown(context.Context) error {
	s.Log.Add("server")
	return nil
}

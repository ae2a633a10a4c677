package server

import (
	"context"

	"github.com/golang/glog"
)

// stream forwards each device block as one datagram until ctx is cancelled.
// Read and send failures are counted and logged; neither stops the loop.
func (s *Server) stream(ctx context.Context) {
	defer s.dataConn.Close()
	buf := make([]byte, s.cfg.BlockSize)
	for ctx.Err() == nil {
		n, err := s.dev.ReadBlock(buf)
		if err != nil || n <= 0 {
			s.stats.readErrors.Add(1)
			glog.Warningf("read error or no data (n=%d): %v", n, err)
			continue
		}
		// No retry: a lost or short datagram is simply lost.
		if _, err := s.dataConn.WriteToUDP(buf[:n], s.dest); err != nil {
			s.stats.sendErrors.Add(1)
			glog.Warningf("send %d bytes to %v: %v", n, s.dest, err)
			continue
		}
		s.stats.blocksSent.Add(1)
		s.stats.bytesSent.Add(uint64(n))
	}
	glog.V(1).Infof("streamer exiting")
}

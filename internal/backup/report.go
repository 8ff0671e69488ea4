package backup

import (
	"fmt"
	"net"
	"time"

	"github.com/liftlog-app/backend/pkg"
)

// SendReport sends the backup outcome to the main service over its
// unix socket, so the service can expose it via prometheus.
func SendReport(socketPath string, res Result) error {
	conn, err := net.DialTimeout("unix", socketPath, 10*time.Second)
	if err != nil {
		return fmt.Errorf("dial unix socket %s: %w", socketPath, err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return fmt.Errorf("set conn deadline: %w", err)
	}

	message := fmt.Sprintf("events::%d||duration::%f", res.Events, res.Duration.Seconds())
	if _, err := conn.Write([]byte(message)); err != nil {
		return fmt.Errorf("send backup report: %w", err)
	}

	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("read backup report response: %w", err)
	}
	if response := pkg.BytesToString(buf[:n]); response != "ok" {
		return fmt.Errorf("unexpected backup report response: %s", response)
	}

	return nil
}

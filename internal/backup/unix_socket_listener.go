package backup

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/liftlog-app/backend/internal/telemetry/metrics"
	"github.com/liftlog-app/backend/pkg"

	log "github.com/sirupsen/logrus"
)

// ReportUnixSocketListenerSetup - the one-off backup binary reports its outcome to the
// main service over a UNIX socket, which avoids adding the Prometheus push gateway
// just for backup metrics
func ReportUnixSocketListenerSetup(
	ctx context.Context,
	socketAddrDir, socketFileName string,
	instr *metrics.Manager,
) (net.Addr, error) {
	socket := filepath.Join(socketAddrDir, socketFileName)
	listener, err := net.Listen("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("binding to unix socket %s: %w", socket, err)
	}

	if err := os.Chmod(socket, os.ModeSocket|0666); err != nil {
		return nil, err
	}

	go func() {
		go func() {
			<-ctx.Done()
			log.Debugln("backup report unix socket listener context done, closing listener")
			_ = listener.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			default:
				// Otherwise, continue accepting new connections.
			}

			conn, err := listener.Accept()
			if err != nil {
				log.Errorf("backup report unix socket listener conn accept: %s", err)
				return
			}
			log.Debugf("backup report unix socket got new conn: %s", conn.RemoteAddr().String())

			if err := conn.SetDeadline(time.Now().Add(time.Minute)); err != nil {
				log.Errorf("failed to set conn timeout: %s", err)
				return
			}

			go func() {
				defer func() { _ = conn.Close() }()

				buf := make([]byte, 1024)
				n, err := conn.Read(buf)
				if err != nil {
					return
				}

				messageReceived := pkg.BytesToString(buf[:n])
				log.Infof("backup report unix socket received: %s", messageReceived)

				msgParts := strings.Split(messageReceived, "||")
				if len(msgParts) != 2 {
					log.Errorf("backup report conn, invalid message received: %s", messageReceived)
					return
				}

				eventsCountInfo := msgParts[0]
				sendBackupEventsCount(eventsCountInfo, instr)

				durationInfo := msgParts[1]
				sendBackupDurationInfo(durationInfo, instr)

				_, err = conn.Write([]byte("ok"))
				if err != nil {
					log.Errorf("backup report conn, send response: %s", err)
				}
			}()
		}
	}()

	return listener.Addr(), nil
}

func sendBackupEventsCount(eventsCountInfoMsg string, metrics *metrics.Manager) {
	eventsCountInfoParts := strings.Split(eventsCountInfoMsg, "::")
	if len(eventsCountInfoParts) != 2 {
		log.Errorf("backup report conn, invalid events info received: %s", eventsCountInfoMsg)
		return
	}

	eventsCount, err := strconv.Atoi(eventsCountInfoParts[1])
	if err != nil {
		log.Errorf("backup report conn, invalid events counter: %s", err)
		return
	}

	metrics.CounterEventsBackups.Add(float64(eventsCount))
}

func sendBackupDurationInfo(durationInfoMsg string, metrics *metrics.Manager) {
	durationInfoParts := strings.Split(durationInfoMsg, "::")
	if len(durationInfoParts) != 2 {
		log.Errorf("backup report conn, invalid duration info received: %s", durationInfoMsg)
		return
	}

	durationInSec, err := strconv.ParseFloat(durationInfoParts[1], 64)
	if err != nil {
		log.Errorf("backup report conn, invalid duration info received: %s", err)
		return
	}

	metrics.HistBackupDuration.Observe(durationInSec)
}

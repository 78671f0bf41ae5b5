package shutdown

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iotaledger/hive.go/daemon"
	"github.com/iotaledger/hive.go/logger"
)

const (
	// the default maximum amount of time to wait for background processes to terminate. After that the process is killed.
	defaultWaitToKillTime = 300 * time.Second
)

// ShutdownHandler waits until a shutdown signal was received or the node tried to shutdown itself,
// and shuts down all processes gracefully.
type ShutdownHandler struct {
	log              *logger.Logger
	daemon           daemon.Daemon
	waitToKillTime   time.Duration
	gracefulStop     chan os.Signal
	nodeSelfShutdown chan string
}

// NewShutdownHandler creates a new shutdown handler.
func NewShutdownHandler(log *logger.Logger, daemon daemon.Daemon) *ShutdownHandler {

	gs := &ShutdownHandler{
		log:              log,
		daemon:           daemon,
		waitToKillTime:   defaultWaitToKillTime,
		gracefulStop:     make(chan os.Signal, 1),
		nodeSelfShutdown: make(chan string),
	}

	signal.Notify(gs.gracefulStop, syscall.SIGTERM, syscall.SIGINT)

	return gs
}

// SelfShutdown can be called in order to instruct the node to shutdown cleanly without receiving any interrupt signals.
func (gs *ShutdownHandler) SelfShutdown(msg string) {
	select {
	case gs.nodeSelfShutdown <- msg:
	default:
	}
}

// Run starts the ShutdownHandler go routine.
func (gs *ShutdownHandler) Run() {

	go func() {
		select {
		case <-gs.gracefulStop:
			gs.log.Warnf("Received shutdown request - waiting (max %s) to finish processing ...", gs.waitToKillTime)
		case msg := <-gs.nodeSelfShutdown:
			gs.log.Warnf("Node self-shutdown: %s; waiting (max %s) to finish processing ...", msg, gs.waitToKillTime)
		}

		go gs.reportPendingWorkers()

		gs.daemon.ShutdownAndWait()
	}()
}

// logs the background workers that are still running until they are done or the time is up.
func (gs *ShutdownHandler) reportPendingWorkers() {
	deadline := time.Now().Add(gs.waitToKillTime)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for now := range ticker.C {
		if now.After(deadline) {
			gs.log.Fatal("Background processes did not terminate in time! Forcing shutdown ...")
		}

		runningBackgroundWorkers := gs.daemon.GetRunningBackgroundWorkers()
		if len(runningBackgroundWorkers) == 0 {
			continue
		}

		gs.log.Warnf("Received shutdown request - waiting (max %s) to finish processing (%s) ...", deadline.Sub(now).Truncate(time.Second), strings.Join(runningBackgroundWorkers, ", "))
	}
}

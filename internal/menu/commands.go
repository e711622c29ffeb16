package menu

// Command is a message produced by the UI and consumed by the Synchronizer.
type Command interface {
	isCommand()
}

// StartDaemon starts the runtime.
type StartDaemon struct{}

// StopDaemon stops the runtime.
type StopDaemon struct{}

// ToggleContainer stops a running container or starts a stopped one.
type ToggleContainer struct {
	ID string
}

// Prune removes stopped containers.
type Prune struct{}

// Resync forces an immediate probe, bypassing the timers.
type Resync struct{}

// Quit stops the Synchronizer.
type Quit struct{}

func (StartDaemon) isCommand()     {}
func (StopDaemon) isCommand()      {}
func (ToggleContainer) isCommand() {}
func (Prune) isCommand()           {}
func (Resync) isCommand()          {}
func (Quit) isCommand()            {}

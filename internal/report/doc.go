// Package report provides train.Hook implementations that observe a run
// between windows: periodic log lines, a terminal progress bar, a loss
// history file and checkpointing.
package report

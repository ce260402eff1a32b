// Package phase decides whether an invocation is the action's main setup
// step or its post-job teardown step. GitHub runs both through the same
// entrypoint; a state marker written before setup starts tells them apart.
package phase

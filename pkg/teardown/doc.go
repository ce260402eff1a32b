// Package teardown restores the CI runner to its pre-setup state.
//
// Every step is best-effort and the public operation cannot fail: teardown
// runs in the workflow's post phase where an error would mask the job's
// real outcome, and it must cope with whatever a partially failed setup
// left behind.
package teardown

// Package console implements the controllers behind each reqdeck view and the
// scrape orchestrator that coordinates them.
//
// Every user action is split in two. The controller method runs on the UI
// goroutine and mutates local or shared state immediately (optimistic row
// updates, pager moves, form transitions). It then returns a Task that
// performs the network call and applies the outcome. The bubbletea layer runs
// tasks as commands and re-renders from the controllers' snapshots when they
// finish. A nil Task means there is nothing to do.
//
// Controllers never import bubbletea. They report failures through the
// notify.Notifier they were built with and also return the error from the
// task so the caller can log it.
//
// Each list controller numbers its refreshes; a response is applied only if
// no newer refresh was started after it. Optimistic mutations (job status,
// source active flag, schedule enable flag) roll back on failure.
package console

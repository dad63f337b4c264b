package watcher

var InSkippedDirectory = inSkippedDirectory

package relay

// Package relay implements the local HTTP listener that receives credential
// (id, name) pairs from the browser bookmarklet and hands them to the UI
// through the event bus. It never writes to the data files itself.

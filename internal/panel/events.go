// Package panel runs the cover panel: one sequential loop that turns note
// switches, file changes and drops into published views.
package panel

// Event is one of DocumentSwitched, MetadataChanged or FileDropped.
type Event interface {
	isEvent()
}

// DocumentSwitched makes Path the active note. An empty Path clears it.
type DocumentSwitched struct {
	Path string
}

// MetadataChanged reports that the file at Path changed on disk.
type MetadataChanged struct {
	Path string
}

// FileDropped carries a file dropped onto the panel.
type FileDropped struct {
	Name string
	Data []byte
}

// refresh re-renders after a transient message, unless a newer message
// has been shown since.
type refresh struct {
	gen uint64
}

func (DocumentSwitched) isEvent() {}
func (MetadataChanged) isEvent()  {}
func (FileDropped) isEvent()      {}
func (refresh) isEvent()          {}

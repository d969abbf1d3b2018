package api

// Subject and stream names shared between the orchestrator and the worker
// services. These are part of the wire contract: a worker listens on its
// process subject and publishes its reply to the reply subject embedded in
// the request payload, which lives on the matching result stream.
const (
	PlantUmlProcessSubject = "plantuml.process"
	PlantUmlProcessStream  = "PLANTUML_PROCESS_STREAM"

	DrawIoProcessSubject = "drawio.process"
	DrawIoProcessStream  = "DRAWIO_PROCESS_STREAM"

	ImgResultSubject = "img.result"
	ImgResultStream  = "IMG_RESULT_STREAM"

	NotebookProcessSubject = "notebook.process"
	NotebookProcessStream  = "NOTEBOOK_PROCESS_STREAM"

	NotebookResultSubject = "notebook.result"
	NotebookResultStream  = "NOTEBOOK_RESULT_STREAM"
)

// StreamDef describes one work-queue stream the system depends on.
type StreamDef struct {
	Name     string
	Subjects []string
}

// Streams returns the full set of streams the orchestrator and workers
// require, in bootstrap order.
func Streams() []StreamDef {
	defs := make([]StreamDef, 0, 5)
	for _, s := range []struct{ name, subject string }{
		{PlantUmlProcessStream, PlantUmlProcessSubject},
		{DrawIoProcessStream, DrawIoProcessSubject},
		{ImgResultStream, ImgResultSubject},
		{NotebookProcessStream, NotebookProcessSubject},
		{NotebookResultStream, NotebookResultSubject},
	} {
		defs = append(defs, StreamDef{
			Name:     s.name,
			Subjects: []string{s.subject, s.subject + ".>"},
		})
	}
	return defs
}

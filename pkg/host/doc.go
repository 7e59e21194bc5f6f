// Package host provides reactor.Host implementations: an in-memory
// recorder, a JSON-lines writer, an S3 archive and a fan-out.
//
//	rec := host.NewRecorder()
//	root := reactor.NewRoot(host.Multi(rec, host.NewJSONLines(os.Stdout)))
package host

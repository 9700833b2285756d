// Package storage provides HTTP access to the workspace object storage.
//
// The Client in this package handles:
//   - Bearer-token authentication against the workspace API
//   - Resolution of relative object paths against the workspace base URL
//   - File downloads with progress tracking
//   - Object size retrieval via HEAD requests
//   - Timeout handling
//
// The package also parses the workspace meetings manifest, the JSON listing
// of meetings, participants and recordings served at MeetingsPath.
//
// # Basic Usage
//
//	client := storage.NewClient("https://workspace.example.com", token)
//
//	// List meetings from the workspace
//	meetings, err := client.FetchMeetings(ctx, pathConfig)
//
//	// Download a recording with progress callback
//	client.DownloadFile(ctx, rec.SourceURL, rec.Path, func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &storage.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package storage

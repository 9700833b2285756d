package library

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/xrehpicx/standup/internal/config"
	ioutils "github.com/xrehpicx/standup/internal/io"
	"github.com/xrehpicx/standup/internal/model"
	"github.com/xrehpicx/standup/internal/storage"
	"github.com/xrehpicx/standup/internal/store"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pull progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// lockFileName guards the library root against concurrent pulls from
// multiple processes.
const lockFileName = ".standup.lock"

// Puller syncs meetings from the workspace into the local library.
//
// A pull:
//  1. Fetches the workspace meetings manifest
//  2. Upserts all meetings into the local database
//  3. Downloads missing or size-mismatched recordings concurrently
//
// Recordings already on disk with a size within the configured tolerance
// of the manifest size are skipped. The library root is guarded with a
// file lock so two instances never download into the same tree.
//
// Example:
//
//	puller := library.NewPuller(settings, client, st, func(ev library.ProgressEvent) {
//	    fmt.Println(ev.Message)
//	})
//	err := puller.Pull(ctx)
type Puller struct {
	settings *config.Settings
	client   *storage.Client
	store    *store.Store

	totalFiles      int32
	downloadedFiles int32
	receivedBytes   int64

	onProgress func(ProgressEvent)
}

// NewPuller creates a Puller. The onProgress callback may be nil; when set
// it is invoked from multiple goroutines and must be safe for that.
func NewPuller(settings *config.Settings, client *storage.Client, st *store.Store, onProgress func(ProgressEvent)) *Puller {
	return &Puller{
		settings:   settings,
		client:     client,
		store:      st,
		onProgress: onProgress,
	}
}

// Pull fetches the manifest and downloads all missing recordings.
//
// Individual recording failures are reported as progress events and do not
// abort the pull; the first manifest or database error does.
func (p *Puller) Pull(ctx context.Context) error {
	meetings, err := p.client.FetchMeetings(ctx, p.settings.ToPathConfig())
	if err != nil {
		return fmt.Errorf("fetch meetings: %w", err)
	}
	p.progress(ProgressEvent{Message: fmt.Sprintf("Workspace lists %d meetings", len(meetings)), Level: LevelInfo})

	for _, meeting := range meetings {
		if err := p.store.UpsertMeeting(ctx, meeting); err != nil {
			return fmt.Errorf("save meeting %q: %w", meeting.Title, err)
		}
	}

	return p.PullRecordings(ctx, meetings)
}

// PullRecordings downloads the given meetings' recordings into the library.
func (p *Puller) PullRecordings(ctx context.Context, meetings []*model.Meeting) error {
	libRoot := p.libraryRoot()
	if err := ioutils.EnsureDir(libRoot); err != nil {
		return fmt.Errorf("create library root: %w", err)
	}

	lock := flock.New(filepath.Join(libRoot, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock library: %w", err)
	}
	if !locked {
		return fmt.Errorf("library %s is in use by another standup instance", libRoot)
	}
	defer lock.Unlock()

	atomic.StoreInt32(&p.totalFiles, 0)
	atomic.StoreInt32(&p.downloadedFiles, 0)
	atomic.StoreInt64(&p.receivedBytes, 0)
	for _, meeting := range meetings {
		atomic.AddInt32(&p.totalFiles, int32(len(meeting.Recordings)))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.MaxConcurrentDownloads)

	for _, meeting := range meetings {
		meeting := meeting
		if err := ioutils.EnsureDir(meeting.Dir); err != nil {
			p.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory for %s: %v", meeting.Title, err), Level: LevelError})
			continue
		}
		for _, rec := range meeting.Recordings {
			rec := rec
			g.Go(func() error {
				if err := p.pullRecording(ctx, rec); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					p.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", rec.Title, err), Level: LevelError})
					return nil // Continue with other recordings
				}
				atomic.AddInt32(&p.downloadedFiles, 1)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	done := atomic.LoadInt32(&p.downloadedFiles)
	total := atomic.LoadInt32(&p.totalFiles)
	if done == total {
		received := float64(atomic.LoadInt64(&p.receivedBytes)) / 1024 / 1024
		p.progress(ProgressEvent{Message: fmt.Sprintf("Library up to date, %d recordings (%.2f MB fetched)", total, received), Level: LevelSuccess})
	} else {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Pulled %d of %d recordings, some failed", done, total), Level: LevelWarning})
	}
	return nil
}

// Progress returns the number of recordings handled and the total count of
// the running pull.
func (p *Puller) Progress() (done, total int32) {
	return atomic.LoadInt32(&p.downloadedFiles), atomic.LoadInt32(&p.totalFiles)
}

// BytesReceived returns the number of payload bytes fetched so far. Bytes
// from failed download attempts are excluded.
func (p *Puller) BytesReceived() int64 {
	return atomic.LoadInt64(&p.receivedBytes)
}

// pullRecording downloads one recording unless an acceptable local copy
// exists, retrying with exponential cooldown.
func (p *Puller) pullRecording(ctx context.Context, rec *model.Recording) error {
	if p.hasAcceptableCopy(ctx, rec) {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(rec.Path)), Level: LevelVerbose})
		return nil
	}

	var err error
	retries := p.settings.DownloadMaxRetries
	if retries < 1 {
		retries = 1
	}
	for tries := 0; tries < retries; tries++ {
		var attempt int64
		err = p.client.DownloadFile(ctx, rec.SourceURL, rec.Path, func(written, total int64) {
			atomic.AddInt64(&p.receivedBytes, written-attempt)
			attempt = written
		})
		if err == nil {
			break
		}
		// The failed attempt's partial bytes must not count toward the
		// fetched total; the retry streams the file again from zero.
		atomic.AddInt64(&p.receivedBytes, -attempt)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, retries, rec.Title), Level: LevelWarning})
		p.waitForRetry(ctx, tries)
	}
	if err != nil {
		return err
	}

	p.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(rec.Path)), Level: LevelVerbose})
	return nil
}

// hasAcceptableCopy reports whether the local file exists with a size close
// enough to the expected one. The manifest size is preferred; when absent a
// HEAD request fills it in.
func (p *Puller) hasAcceptableCopy(ctx context.Context, rec *model.Recording) bool {
	size, err := ioutils.FileSize(rec.Path)
	if err != nil || size < 0 {
		return false
	}

	expected := rec.SizeBytes
	if expected <= 0 {
		expected, err = p.client.GetFileSize(ctx, rec.SourceURL)
		if err != nil || expected <= 0 {
			// Cannot verify; treat any existing file as good.
			return true
		}
	}

	sizeDiff := float64(size-expected) / float64(expected)
	return math.Abs(sizeDiff) <= p.settings.AllowedFileSizeDifference
}

func (p *Puller) waitForRetry(ctx context.Context, tries int) {
	cooldown := p.settings.DownloadRetryCooldown * math.Pow(p.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

// libraryRoot returns the directory the lock file lives in: the part of the
// library path template above the first placeholder.
func (p *Puller) libraryRoot() string {
	path := p.settings.LibraryPath
	for i, r := range path {
		if r == '{' {
			return filepath.Dir(path[:i])
		}
	}
	return path
}

func (p *Puller) progress(event ProgressEvent) {
	if p.onProgress != nil {
		p.onProgress(event)
	}
}

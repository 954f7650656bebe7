package thumbnail

import (
	"github.com/google/uuid"
	"sync"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/common/logger"
)

const populateQueueSize = 1024

type populateJob struct {
	id         uuid.UUID
	path       string
	generation uint64
}

// Populator fills the cache on worker goroutines. Each result is sent to
// api.ThumbnailReady as an *api.ThumbnailReadyCommand.
type Populator struct {
	cache       api.ThumbnailCache
	sender      api.Sender
	progress    api.ProgressReporter
	threadCount int

	inputChannel chan *populateJob
	stopChannel  chan struct{}
	wg           sync.WaitGroup
	closeOnce    sync.Once

	mux         sync.Mutex
	generations map[string]uint64
	requested   int
	processed   int

	api.ThumbnailPopulator
}

func NewPopulator(cache api.ThumbnailCache, sender api.Sender, threadCount int) *Populator {
	if threadCount <= 0 {
		threadCount = 1
	}
	s := &Populator{
		cache:        cache,
		sender:       sender,
		progress:     api.NewSenderProgressReporter(sender),
		threadCount:  threadCount,
		inputChannel: make(chan *populateJob, populateQueueSize),
		stopChannel:  make(chan struct{}),
		generations:  map[string]uint64{},
	}

	logger.Debug.Printf("Starting %d thumbnail workers", threadCount)
	for i := 0; i < threadCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Request queues path for population and returns the generation of the
// request. A later request for the same path supersedes this one.
func (s *Populator) Request(path string) uint64 {
	sourcePath := AbsPath(path)

	s.mux.Lock()
	s.generations[sourcePath]++
	generation := s.generations[sourcePath]
	s.requested++
	s.mux.Unlock()

	job := &populateJob{
		id:         uuid.New(),
		path:       sourcePath,
		generation: generation,
	}
	logger.Trace.Printf("Queued job %s for '%s' (generation %d)", job.id, sourcePath, generation)

	select {
	case s.inputChannel <- job:
	case <-s.stopChannel:
	}
	return generation
}

// Latest returns the generation of the newest request for path, zero if none.
func (s *Populator) Latest(path string) uint64 {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.generations[AbsPath(path)]
}

func (s *Populator) isLatest(job *populateJob) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.generations[job.path] == job.generation
}

func (s *Populator) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopChannel:
			return
		case job := <-s.inputChannel:
			s.process(job)
		}
	}
}

func (s *Populator) process(job *populateJob) {
	if !s.isLatest(job) {
		logger.Trace.Printf("Skipping superseded job %s for '%s'", job.id, job.path)
		s.markProcessed()
		return
	}

	start := time.Now()
	cachePath, err := s.cache.EnsureCached(job.path)
	if err != nil {
		s.progress.Error("Could not create thumbnail for "+job.path, err)
	} else if logger.IsLogLevel(logger.TRACE) {
		logger.Trace.Printf("Job %s done in %s", job.id, time.Since(start))
	}

	s.sender.SendCommandToTopic(api.ThumbnailReady, &api.ThumbnailReadyCommand{
		Path:       job.path,
		CachePath:  cachePath,
		Generation: job.generation,
		Err:        err,
	})
	current, total := s.markProcessed()
	s.progress.Update("Creating thumbnails", current, total)
}

func (s *Populator) markProcessed() (int, int) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.processed++
	return s.processed, s.requested
}

// Close stops the workers after their current job. Queued jobs are dropped.
func (s *Populator) Close() {
	s.closeOnce.Do(func() {
		close(s.stopChannel)
		s.wg.Wait()
		logger.Debug.Printf("Thumbnail workers stopped")
	})
}

// ReadyFilter wraps fn so that it only sees results that are still the
// newest request for their path.
func ReadyFilter(populator api.ThumbnailPopulator, fn func(*api.ThumbnailReadyCommand)) func(*api.ThumbnailReadyCommand) {
	return func(command *api.ThumbnailReadyCommand) {
		if latest := populator.Latest(command.Path); command.Generation != latest {
			logger.Debug.Printf("Dropping superseded thumbnail of '%s' (generation %d, latest %d)",
				command.Path, command.Generation, latest)
			return
		}
		fn(command)
	}
}

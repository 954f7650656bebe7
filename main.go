package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/backend"
	"vincit.fi/image-viewer/backend/decoder"
	"vincit.fi/image-viewer/backend/library"
	"vincit.fi/image-viewer/backend/mainloop"
	"vincit.fi/image-viewer/backend/paintable"
	"vincit.fi/image-viewer/common"
	"vincit.fi/image-viewer/common/logger"
	"vincit.fi/image-viewer/common/util"
)

const eventBusQueueSize = 1000

func main() {
	params, err := common.ParseParams(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.InitializeWithWriter(logger.StringToLogLevel(params.LogLevel()), os.Stderr)

	paths := params.Files()
	if params.Stdin() {
		stdinPaths, err := library.ReadPaths(os.Stdin)
		if err != nil {
			logger.Error.Fatal("Could not read file names: ", err)
		}
		paths = append(paths, stdinPaths...)
	}

	if params.Render() != "" {
		if err := render(params, paths); err != nil {
			logger.Error.Fatal(err)
		}
		return
	}

	if err := run(params, paths); err != nil {
		logger.Error.Fatal(err)
	}
}

func run(params *common.Params, paths []string) error {
	stores, err := backend.InitializeStores(params.CacheDir())
	if err != nil {
		return err
	}
	defer stores.Close()

	loop := mainloop.New()
	brokers := backend.InitializeEventBrokers(eventBusQueueSize)
	services, err := backend.InitializeServices(params, stores, brokers, loop)
	if err != nil {
		return err
	}
	defer services.Close()

	if _, err := services.Library.AddPaths(paths, params.Recursive()); err != nil {
		logger.Warn.Printf("Some files were skipped: %s", err)
	}
	total := services.Library.Len()
	logger.Info.Printf("Viewing %d images in %s mode", total, modeName(params))

	if !params.ThumbnailMode() {
		for _, path := range services.Library.Files() {
			fmt.Println(path)
		}
		return nil
	}
	if total == 0 {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := 0
	failed := 0
	backend.ConnectThumbnails(services, brokers, loop, func(path string, thumbnail api.Paintable, err error) {
		done++
		if err != nil {
			failed++
			logger.Error.Printf("Thumbnail of '%s' failed: %s", path, err)
		} else {
			if !params.Pause() {
				thumbnail.Resume()
			}
			cachePath, _ := services.ThumbnailCache.Locate(path)
			fmt.Printf("%s\t%s\t%dx%d\n", path, cachePath, thumbnail.IntrinsicWidth(), thumbnail.IntrinsicHeight())
		}
		if done == total && !params.Watch() {
			loop.Quit()
		}
	})
	backend.ConnectNotices(brokers, loop, func(message string) {
		fmt.Fprintln(os.Stderr, "error:", message)
	}, func(path string) {
		logger.Info.Printf("Thumbnail of '%s' is out of date", path)
	})
	brokers.Broker.ConnectToLoop(api.ProcessStatusUpdated, loop, func(command *api.UpdateProgressCommand) {
		logger.Debug.Printf("%s: %d/%d", command.Name, command.Current, command.Total)
	})

	if services.Watcher != nil {
		services.Watcher.Start(ctx)
	}
	backend.RequestThumbnails(services)

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d thumbnails failed", failed, total)
	}
	return nil
}

func modeName(params *common.Params) string {
	if params.ThumbnailMode() {
		return "thumbnail"
	}
	return "list"
}

// render draws the first image at full resolution. A playing animation is
// written one file per frame over one playback cycle.
func render(params *common.Params, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no image to render")
	}

	loop := mainloop.NewManual()
	viewer := paintable.New(loop, decoder.New(), params.FrameDelay())
	defer viewer.Destroy()
	if err := viewer.LoadFile(paths[0]); err != nil {
		return err
	}
	viewer.Rotate(params.Rotate())
	viewer.Flip(params.Flip())

	if params.Pause() || viewer.FrameCount() < 2 {
		return writeRender(viewer, params.Render())
	}

	viewer.Resume()
	ext := filepath.Ext(params.Render())
	base := strings.TrimSuffix(params.Render(), ext)
	start := time.Now()
	for i := 0; i < viewer.FrameCount(); i++ {
		if err := writeRender(viewer, fmt.Sprintf("%s-%03d%s", base, i, ext)); err != nil {
			return err
		}
		loop.AdvanceToNext()
	}
	logger.Info.Printf("Rendered %d frames in %s", viewer.FrameCount(), time.Since(start))
	return nil
}

func writeRender(viewer *paintable.Paintable, path string) error {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, viewer.RenderOriented()); err != nil {
		return err
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Info.Printf("Wrote frame %d to '%s'", viewer.CurrentIndex(), path)
	return nil
}

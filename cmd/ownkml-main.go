package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/goutil/open"
	"github.com/jamesrr39/goutil/userextra"
	"github.com/jamesrr39/ownkml/fonts"
	"github.com/jamesrr39/ownkml/kmlparser"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/ownkmldal"
	"github.com/jamesrr39/ownkml/ownkmldal/geojsonexport"
	"github.com/jamesrr39/ownkml/ownkmldal/kmlexport"
	"github.com/jamesrr39/ownkml/ownkmldal/ownkmlsqldb/ownkmlpostgresql"
	"github.com/jamesrr39/ownkml/ownkmldal/parquetexport"
	"github.com/jamesrr39/ownkml/ownkmlrenderer"
	"github.com/jamesrr39/ownkml/webservices"
	"github.com/paulmach/osm"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/pkg/profile"
)

const (
	MAX_SERVER_RUNNING_ATTEMPTS = 50
	DEFAULT_PORT                = 9000
	apiPath                     = "api"
)

var (
	verbose       *bool
	shouldProfile *string
)

func main() {
	if len(os.Args) == 1 {
		// start in desktop "double-click" visual mode
		logger := logpkg.NewLogger(os.Stderr, logpkg.LogLevelInfo)
		err := setupDesktopMode(logger)
		if err != nil {
			log.Fatalf("failed to start server: %q\n%s\n", err.Error(), err.Stack())
		}
		return
	}

	verbose = kingpin.Flag("v", "verbose logging").Bool()
	shouldProfile = kingpin.Flag("profile", "write a CPU profile of the command to this directory (serve: profile each preview request)").String()

	setupInspect()
	setupExport()
	setupPreview()
	setupServe()

	kingpin.Parse()
}

// newLogger must only be called from a command action, after the flags have been parsed
func newLogger() *logpkg.Logger {
	logLevel := logpkg.LogLevelInfo
	if *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	return logpkg.NewLogger(os.Stderr, logLevel)
}

func runAction(run func() errorsx.Error) func(ctx *kingpin.ParseContext) error {
	return func(ctx *kingpin.ParseContext) error {
		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	}
}

func startProfile() interface{ Stop() } {
	if *shouldProfile == "" {
		return noopProfile{}
	}
	return profile.Start(profile.ProfilePath(*shouldProfile), profile.CPUProfile)
}

type noopProfile struct{}

func (noopProfile) Stop() {}

func loadFile(logger *logpkg.Logger, fs gofs.Fs, filePath string) (*ownkmldal.LoadedFile, errorsx.Error) {
	expandedPath, err := userextra.ExpandUser(filePath)
	if err != nil {
		return nil, errorsx.Wrap(err, "filePath", filePath)
	}

	loader := ownkmldal.NewLoader(logger, fs, kmlparser.NewParser(logger))

	loadedFile, err := loader.Load(expandedPath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	logger.Debug("loaded %q in %s mode. Elements: %d", loadedFile.FileInfo.Name, loadedFile.Document.ParseMode, len(loadedFile.Document.Elements))

	return loadedFile, nil
}

func setupInspect() {
	cmd := kingpin.Command("inspect", "print a summary of a KML or KMZ file")
	filePath := cmd.Arg("file", "KML or KMZ file to inspect").Required().String()
	boundsStr := cmd.Flag("bounds", "only report elements overlapping these bounds. [W,N,E,S] Example: -1,1,1,-1").Default("").String()
	cmd.Action(runAction(func() errorsx.Error {
		defer startProfile().Stop()

		bounds, err := ownkml.ParseBoundsFlag(*boundsStr)
		if err != nil {
			return errorsx.Wrap(err, "bounds", *boundsStr)
		}

		loadedFile, err := loadFile(newLogger(), gofs.NewOsFs(), *filePath)
		if err != nil {
			return errorsx.Wrap(err)
		}

		fmt.Println(inspectSummary(loadedFile, bounds))
		return nil
	}))
}

func inspectSummary(loadedFile *ownkmldal.LoadedFile, bounds osm.Bounds) string {
	document := *loadedFile.Document
	document.Elements = loadedFile.Document.ElementsInBounds(bounds)

	return ownkml.Summarise(loadedFile.FileInfo.Name, loadedFile.FileInfo.Size, &document)
}

var exportTargetHelp = fmt.Sprintf("target to export to. It should be the type (one of %q), followed by the separator (%s), followed by the path or connection string. For example: %s%smy/file.geojson",
	ownkmldal.ExportTargetTypes,
	ownkmldal.ConnectionPathSeparator,
	string(ownkmldal.ExportTargetTypeGeoJSON),
	ownkmldal.ConnectionPathSeparator,
)

func setupExport() {
	cmd := kingpin.Command("export", "export the elements of a KML or KMZ file")
	filePath := cmd.Arg("file", "KML or KMZ file to export").Required().String()
	targetStr := cmd.Arg("target", exportTargetHelp).Required().String()
	parquetRowGroupSize := cmd.Flag("parquet-row-group-size", `(applies only to exports in the parquet format) size in bytes of one parquet "row group"`).Default(fmt.Sprintf("%d", parquetexport.DefaultRowGroupSize)).Int64()
	cmd.Action(runAction(func() errorsx.Error {
		defer startProfile().Stop()

		logger := newLogger()
		fs := gofs.NewOsFs()

		target, err := ownkmldal.ParseExportTarget(*targetStr)
		if err != nil {
			return errorsx.Wrap(err)
		}

		loadedFile, err := loadFile(logger, fs, *filePath)
		if err != nil {
			return errorsx.Wrap(err)
		}

		startTime := time.Now()

		switch target.Type {
		case ownkmldal.ExportTargetTypeGeoJSON:
			err = writeToFile(fs, target.ConnectionPath, func(w io.Writer) errorsx.Error {
				return geojsonexport.Write(w, loadedFile.Document)
			})
		case ownkmldal.ExportTargetTypeKML:
			err = writeToFile(fs, target.ConnectionPath, func(w io.Writer) errorsx.Error {
				return kmlexport.Write(w, loadedFile.Document)
			})
		case ownkmldal.ExportTargetTypeParquet:
			outPath, expandErr := userextra.ExpandUser(target.ConnectionPath)
			if expandErr != nil {
				return errorsx.Wrap(expandErr)
			}
			err = parquetexport.WriteFile(outPath, loadedFile.Document, *parquetRowGroupSize)
		case ownkmldal.ExportTargetTypePostgresql:
			var fileID string
			fileID, err = ownkmlpostgresql.Export(target.ConnectionPath, loadedFile.FileInfo.Name, loadedFile.FileInfo.Size, loadedFile.Document)
			if err == nil {
				logger.Info("exported to postgresql with file ID %q", fileID)
			}
		default:
			return errorsx.Errorf("unknown export target type: %q", target.Type)
		}
		if err != nil {
			return errorsx.Wrap(err, "targetType", target.Type)
		}

		logger.Info("exported %d elements to %s in %s", len(loadedFile.Document.Elements), target.Type, time.Since(startTime))

		return nil
	}))
}

func writeToFile(fs gofs.Fs, filePath string, write func(w io.Writer) errorsx.Error) errorsx.Error {
	expandedPath, err := userextra.ExpandUser(filePath)
	if err != nil {
		return errorsx.Wrap(err)
	}

	file, err := fs.Create(expandedPath)
	if err != nil {
		return errorsx.Wrap(err, "filePath", expandedPath)
	}
	defer file.Close()

	writeErr := write(file)
	if writeErr != nil {
		return errorsx.Wrap(writeErr, "filePath", expandedPath)
	}

	return nil
}

func setupPreview() {
	defaultOptions := ownkmlrenderer.DefaultOptions()

	cmd := kingpin.Command("preview", "render a KML or KMZ file to a PNG image")
	filePath := cmd.Arg("file", "KML or KMZ file to render").Required().String()
	outPath := cmd.Arg("out", "path of the PNG file to write").Required().String()
	width := cmd.Flag("width", "image width in pixels").Default(fmt.Sprintf("%d", defaultOptions.Width)).Int()
	height := cmd.Flag("height", "image height in pixels").Default(fmt.Sprintf("%d", defaultOptions.Height)).Int()
	boundsStr := cmd.Flag("bounds", "render only this area. [W,N,E,S] Example: -1,1,1,-1").Default("").String()
	noLabels := cmd.Flag("no-labels", "do not draw element names").Bool()
	traceFilePath := cmd.Flag("trace", "write a trace of the render to this file").String()
	shouldOpen := cmd.Flag("open", "open the image once it has been written").Bool()
	cmd.Action(runAction(func() errorsx.Error {
		defer startProfile().Stop()

		logger := newLogger()
		fs := gofs.NewOsFs()

		options := defaultOptions
		options.Width = *width
		options.Height = *height
		options.ShowLabels = !*noLabels
		if *boundsStr != "" {
			bounds, err := ownkml.ParseBoundsFlag(*boundsStr)
			if err != nil {
				return errorsx.Wrap(err, "bounds", *boundsStr)
			}
			options.Bounds = &bounds
		}

		loadedFile, err := loadFile(logger, fs, *filePath)
		if err != nil {
			return errorsx.Wrap(err)
		}

		var traceWriter io.Writer = ioutil.Discard
		if *traceFilePath != "" {
			traceFile, err := fs.Create(*traceFilePath)
			if err != nil {
				return errorsx.Wrap(err)
			}
			defer traceFile.Close()
			traceWriter = traceFile
		}

		tracer := tracing.NewTracer(traceWriter)
		trace := tracing.StartTrace(tracer, "preview "+loadedFile.FileInfo.Name)
		ctx := context.WithValue(context.Background(), tracing.TracerCtxKey, tracer)
		ctx = context.WithValue(ctx, tracing.TraceCtxKey, trace)

		renderer := ownkmlrenderer.NewRasterRenderer(fonts.DefaultFont())
		img, err := renderer.RenderDocument(ctx, loadedFile.Document, options)
		if err != nil {
			return errorsx.Wrap(err)
		}

		traceErr := tracer.EndTrace(trace, "")
		if traceErr != nil {
			return errorsx.Wrap(traceErr)
		}

		err = writeToFile(fs, *outPath, func(w io.Writer) errorsx.Error {
			return encodePNG(w, img)
		})
		if err != nil {
			return errorsx.Wrap(err)
		}

		logger.Info("wrote preview to %q", *outPath)

		if *shouldOpen {
			openErr := open.OpenURL(*outPath)
			if openErr != nil {
				return errorsx.Wrap(openErr)
			}
		}

		return nil
	}))
}

func encodePNG(w io.Writer, img image.Image) errorsx.Error {
	err := png.Encode(w, img)
	if err != nil {
		return errorsx.Wrap(err)
	}
	return nil
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

func setupServe() {
	cmd := kingpin.Command("serve", "serve webserver")
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf(":%d", DEFAULT_PORT)).String()
	cmd.Action(runAction(func() errorsx.Error {
		logger := newLogger()

		pathsConfig, err := ensureDefaultPathsConfig()
		if err != nil {
			return errorsx.Wrap(err)
		}

		router, err := createServer(pathsConfig, logger, *shouldProfile != "")
		if err != nil {
			return errorsx.Wrap(err)
		}

		server := httpextra.NewServerWithTimeouts()
		server.Addr = *addr
		server.Handler = router

		logger.Info("about to start serving on %q", *addr)

		listenErr := server.ListenAndServe()
		if listenErr != nil {
			return errorsx.Wrap(listenErr)
		}
		return nil
	}))
}

func ensureDefaultPathsConfig() (*ownkmldal.PathsConfig, errorsx.Error) {
	rootDir, err := userextra.ExpandUser("~/.local/share/github.com/jamesrr39/ownkml/")
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	pathsConfig := ownkmldal.NewPathsConfig(rootDir)

	err = pathsConfig.EnsurePaths(gofs.NewOsFs())
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return pathsConfig, nil
}

func setupDesktopMode(logger *logpkg.Logger) errorsx.Error {
	pathsConfig, err := ensureDefaultPathsConfig()
	if err != nil {
		return errorsx.Wrap(err)
	}

	router, err := createServer(pathsConfig, logger, false)
	if err != nil {
		return errorsx.Wrap(err)
	}

	server := httpextra.NewServerWithTimeouts()
	server.Addr = fmt.Sprintf("localhost:%d", DEFAULT_PORT)
	server.Handler = router

	errChan := startServer(server, fmt.Sprintf("http://%s/%s/info", server.Addr, apiPath))

	err = <-errChan
	if err != nil {
		return errorsx.Wrap(err)
	}

	openErr := open.OpenURL(fmt.Sprintf("http://%s", server.Addr))
	if openErr != nil {
		return errorsx.Wrap(openErr)
	}

	// serve until the server stops
	return errorsx.Wrap(<-errChan)
}

// startServer serves in the background. The first value received is nil once the info URL answers,
// or the error that stopped the server from starting. A later value is the error the server stopped with.
func startServer(server *http.Server, infoURL string) <-chan errorsx.Error {
	// both goroutines send, and only the first value is guaranteed to be received
	errChan := make(chan errorsx.Error, 2)

	go func() {
		errChan <- errorsx.Wrap(server.ListenAndServe())
	}()

	go func() {
		errChan <- waitForServer(infoURL)
	}()

	return errChan
}

func waitForServer(infoURL string) errorsx.Error {
	client := http.Client{
		Timeout: time.Second * 10,
	}

	for i := 0; i < MAX_SERVER_RUNNING_ATTEMPTS; i++ {
		resp, err := client.Get(infoURL)
		if err != nil {
			// retry after wait
			time.Sleep(time.Millisecond * 500)
			continue
		}
		resp.Body.Close()

		err = httpextra.CheckResponseCode(http.StatusOK, resp.StatusCode)
		if err != nil {
			return errorsx.Wrap(err, "url", infoURL)
		}

		return nil
	}

	return errorsx.Errorf("server did not start after %d attempts", MAX_SERVER_RUNNING_ATTEMPTS)
}

func createServer(pathsConfig *ownkmldal.PathsConfig, logger *logpkg.Logger, shouldProfile bool) (chi.Router, errorsx.Error) {
	fs := gofs.NewOsFs()
	loader := ownkmldal.NewLoader(logger, fs, kmlparser.NewParser(logger))
	renderer := ownkmlrenderer.NewRasterRenderer(fonts.DefaultFont())

	traceFilePath := filepath.Join(pathsConfig.TraceDir, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, err := fs.Create(traceFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	tracer := tracing.NewTracer(traceFile)

	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)
	router.Use(tracing.Middleware(tracer))
	router.Route(fmt.Sprintf("/%s/", apiPath), func(r chi.Router) {
		r.Mount("/info", webservices.NewInfoService(logger))
		r.Mount("/parse", webservices.NewParseService(logger, loader))
		r.Mount("/export", webservices.NewExportService(logger, loader))
		r.Mount("/preview", webservices.NewPreviewService(logger, loader, renderer, shouldProfile))
	})
	router.Mount("/", webservices.NewUploadPageService(logger, apiPath))

	return router, nil
}

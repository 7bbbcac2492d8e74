// SPDX-License-Identifier: MPL-2.0

package podman

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/distribution/reference"
	"github.com/moby/go-archive"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/podbridge/podbridge/internal/proc"
	"github.com/podbridge/podbridge/pkg/engine"
)

// localhostPrefix marks images built without a registry component.
const localhostPrefix = "localhost/"

// transportPattern matches image specs that already carry a transport
// prefix such as "docker://".
var transportPattern = regexp.MustCompile(`^\w+://`)

type (
	// Option configures an Engine.
	Option func(*Engine)

	// Engine drives a podman-compatible CLI to implement the
	// engine.ContainerEngine contract.
	Engine struct {
		cfg         engine.Config
		cli         *cli
		logger      *log.Logger
		execCommand proc.ExecCommandFunc
	}
)

var _ engine.ContainerEngine = (*Engine)(nil)

// WithLogger routes the engine's diagnostics to logger. The default
// discards them.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithExecCommand sets a custom child process factory.
// This allows injection of mock implementations for testing.
func WithExecCommand(fn proc.ExecCommandFunc) Option {
	return func(e *Engine) {
		e.execCommand = fn
	}
}

// New builds an Engine for cfg, filling empty fields with the package
// defaults, and verifies the executable responds by querying its
// environment report once.
func New(ctx context.Context, cfg engine.Config, opts ...Option) (*Engine, error) {
	if cfg.Executable == "" {
		cfg.Executable = engine.DefaultExecutable
	}
	if cfg.DefaultTransport == "" {
		cfg.DefaultTransport = engine.DefaultTransport
	}

	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cli = &cli{
		exe:         cfg.Executable,
		logger:      e.logger,
		execCommand: e.execCommand,
		readTimeout: cfg.ReadTimeout,
	}

	if _, err := e.Info(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Info returns the engine's environment report.
func (e *Engine) Info(ctx context.Context) (string, error) {
	lines, err := e.cli.run(ctx, []string{"info"}, withCapture(proc.CaptureStdout))
	if err != nil {
		return "", err
	}
	out := strings.Join(lines, "")
	e.logger.Debug("engine info", "output", out)
	return out, nil
}

// Build builds an image and returns the build output as a stream. A tar
// build context is extracted to a temporary directory that is removed
// once the stream ends or is closed.
func (e *Engine) Build(ctx context.Context, opts engine.BuildOptions) (engine.LineStream, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	contextDir := opts.Path
	var cleanup func()
	if opts.TarStream != nil {
		dir, err := os.MkdirTemp("", "podbridge-build-")
		if err != nil {
			return nil, fmt.Errorf("creating build directory: %w", err)
		}
		cleanup = func() {
			if err := os.RemoveAll(dir); err != nil {
				e.logger.Warn("removing build directory", "dir", dir, "error", err)
			}
		}
		if err := archive.Untar(opts.TarStream, dir, &archive.TarOptions{NoLchown: true}); err != nil {
			cleanup()
			return nil, fmt.Errorf("extracting build context: %w", err)
		}
		e.logger.Debug("extracted build context", "dir", dir)
		if e.logger.GetLevel() <= log.DebugLevel {
			e.logBuildContext(dir)
		}
		contextDir = dir
	}

	stream, err := e.cli.stream(ctx, append(buildArgs(opts), contextDir))
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}
	stream.cleanup = cleanup
	return stream, nil
}

// Images lists the tagged images known to the engine. Untagged images
// carry no name to list them under and are skipped.
func (e *Engine) Images(ctx context.Context) ([]engine.Image, error) {
	lines, err := e.cli.run(ctx, []string{"image", "list", "--format", "json"}, withCapture(proc.CaptureStdout))
	if err != nil {
		return nil, err
	}
	raws, err := parseJSONOrLines(lines)
	if err != nil {
		return nil, err
	}
	records, err := decodeAll[imageListRecord](raws)
	if err != nil {
		return nil, err
	}

	images := make([]engine.Image, 0, len(records))
	for _, rec := range records {
		names := rec.Names
		if len(names) == 0 {
			names = rec.LegacyNames
		}
		if len(names) == 0 {
			continue
		}
		images = append(images, engine.Image{Tags: expandLocalNames(names)})
	}
	return images, nil
}

// InspectImage returns one image's tags and runtime configuration.
// Images without a working directory report "/".
func (e *Engine) InspectImage(ctx context.Context, imageSpec string) (engine.Image, error) {
	lines, err := e.cli.run(ctx,
		[]string{"inspect", "--type", "image", "--format", "json", imageSpec},
		withCapture(proc.CaptureStdout),
	)
	if err != nil {
		return engine.Image{}, err
	}
	raws, err := parseJSONOrLines(lines)
	if err != nil {
		return engine.Image{}, err
	}
	if len(raws) != 1 {
		return engine.Image{}, fmt.Errorf("inspect %s: expected exactly one image record, got %d", imageSpec, len(raws))
	}
	var rec imageInspectRecord
	if err := json.Unmarshal(raws[0], &rec); err != nil {
		return engine.Image{}, fmt.Errorf("inspect %s: decoding image record: %w", imageSpec, err)
	}

	cfg := engine.ImageConfig{
		WorkingDir: rec.Config.WorkingDir,
		User:       rec.Config.User,
		Env:        rec.Config.Env,
		Entrypoint: rec.Config.Entrypoint,
		Cmd:        rec.Config.Cmd,
		Labels:     rec.Config.Labels,
	}
	if cfg.WorkingDir == "" {
		e.logger.Debug("image config has no working directory, defaulting to /", "image", imageSpec)
		cfg.WorkingDir = "/"
	}
	return engine.Image{Tags: rec.RepoTags, Config: cfg}, nil
}

// Push uploads an image and returns the push output as a stream. An
// image spec without a transport is normalized and prefixed with the
// configured default transport; one that already names a transport is
// pushed to verbatim. Configured registry credentials are logged in
// before the upload starts.
func (e *Engine) Push(ctx context.Context, imageSpec string) (engine.LineStream, error) {
	destination := imageSpec
	if !transportPattern.MatchString(imageSpec) {
		ref, err := reference.ParseNormalizedNamed(imageSpec)
		if err != nil {
			return nil, fmt.Errorf("normalizing image reference %q: %w", imageSpec, err)
		}
		destination = e.cfg.DefaultTransport + ref.String()
	}

	if e.cfg.Credentials != nil {
		if err := e.login(ctx, *e.cfg.Credentials); err != nil {
			return nil, err
		}
	}

	stream, err := e.cli.stream(ctx, []string{"push", imageSpec, destination})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Run starts a detached container and returns a handle to it. Volume
// mounts are rejected before anything is started. With AutoRemove the
// handle construction races the removal of a container that exits
// immediately; that race surfaces as the construction error.
func (e *Engine) Run(ctx context.Context, imageSpec string, opts engine.RunOptions) (engine.Container, error) {
	if len(opts.Volumes) > 0 {
		return nil, ErrVolumesUnsupported
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	lines, err := e.cli.run(ctx, runArgs(e.cfg, imageSpec, opts), withCapture(proc.CaptureStdout))
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("run %s: no container id in output", imageSpec)
	}
	// Pulling the image first mixes progress output into the capture;
	// the container id is the last line.
	id := strings.TrimSpace(lines[len(lines)-1])

	ctr, err := newContainer(ctx, e.cli, e.logger, id)
	if err != nil {
		return nil, err
	}
	return ctr, nil
}

// Container attaches a handle to an existing container by id or unique
// id prefix, loading its first state snapshot.
func (e *Engine) Container(ctx context.Context, id string) (*Container, error) {
	return newContainer(ctx, e.cli, e.logger, id)
}

func (e *Engine) login(ctx context.Context, creds engine.RegistryCredentials) error {
	args := []string{"login"}
	opts := []execOption{withCapture(proc.CaptureCombined)}
	if creds.Username != "" {
		args = append(args, "--username", creds.Username)
	}
	if creds.Password != "" {
		args = append(args, "--password-stdin")
		opts = append(opts, withInput(creds.Password))
	}
	if creds.Registry != "" {
		args = append(args, creds.Registry)
	}

	e.logger.Debug("logging in to registry", "registry", creds.Registry)
	lines, err := e.cli.run(ctx, args, opts...)
	if err != nil {
		return err
	}
	e.logger.Debug("login", "output", joined(lines))
	return nil
}

func (e *Engine) logBuildContext(dir string) {
	var entries []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entries = append(entries, rel)
		return nil
	})
	if err != nil {
		e.logger.Warn("listing build context", "dir", dir, "error", err)
		return
	}
	e.logger.Debug("build context contents", "dir", dir, "entries", strings.Join(entries, " "))
}

type (
	// imageListRecord tolerates both name keys the listing may use:
	// "Names" on current engines, "names" on old ones.
	imageListRecord struct {
		Names       []string `json:"Names"`
		LegacyNames []string `json:"names"`
	}

	imageInspectRecord struct {
		RepoTags []string `json:"RepoTags"`
		Config   struct {
			WorkingDir string            `json:"WorkingDir"`
			User       string            `json:"User"`
			Env        []string          `json:"Env"`
			Entrypoint []string          `json:"Entrypoint"`
			Cmd        []string          `json:"Cmd"`
			Labels     map[string]string `json:"Labels"`
		} `json:"Config"`
	}
)

func buildArgs(opts engine.BuildOptions) []string {
	args := []string{"build"}
	for _, k := range sortedKeys(opts.BuildArgs) {
		args = append(args, "--build-arg", k+"="+opts.BuildArgs[k])
	}
	if len(opts.CacheFrom) > 0 {
		args = append(args, "--cache-from", strings.Join(opts.CacheFrom, ","))
	}
	if opts.Limits.CPUSetCPUs != "" {
		args = append(args, "--cpuset-cpus", opts.Limits.CPUSetCPUs)
	}
	if opts.Limits.CPUShares != "" {
		args = append(args, "--cpu-shares", opts.Limits.CPUShares)
	}
	if opts.Limits.Memory != "" {
		args = append(args, "--memory", opts.Limits.Memory)
	}
	if opts.Limits.MemorySwap != "" {
		args = append(args, "--memory-swap", opts.Limits.MemorySwap)
	}
	args = append(args, "--rm")
	if opts.Tag != "" {
		args = append(args, "--tag", opts.Tag)
	}
	if opts.Dockerfile != "" {
		args = append(args, "--file", opts.Dockerfile)
	}
	for _, k := range sortedKeys(opts.Labels) {
		args = append(args, "--label", k+"="+opts.Labels[k])
	}
	if opts.Platform != "" {
		args = append(args, "--platform", opts.Platform)
	}
	return args
}

func runArgs(cfg engine.Config, imageSpec string, opts engine.RunOptions) []string {
	args := []string{"run"}
	if opts.PublishAll {
		args = append(args, "--publish-all")
	}
	for _, p := range opts.Ports {
		args = append(args, "--publish", engine.FormatPortMapping(p))
	}
	args = append(args, "--detach")
	for _, env := range opts.Env {
		args = append(args, "--env", env)
	}
	if opts.AutoRemove {
		args = append(args, "--rm")
	}
	if cfg.LogLevel != "" {
		args = append(args, "--log-level="+cfg.LogLevel)
	}
	args = append(args, imageSpec)
	return append(args, opts.Command...)
}

// expandLocalNames pairs every localhost-prefixed tag with its bare
// alias so locally built images resolve under the name they were built
// with. Order is preserved and duplicates collapse.
func expandLocalNames(names []string) []string {
	seen := make(map[string]struct{}, 2*len(names))
	tags := make([]string, 0, 2*len(names))
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	for _, name := range names {
		add(name)
		if bare, ok := strings.CutPrefix(name, localhostPrefix); ok {
			add(bare)
		}
	}
	return tags
}

func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

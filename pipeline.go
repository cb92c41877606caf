package toolup

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/crafted-tech/toolup/platform"
	"github.com/crafted-tech/toolup/release"
	"github.com/crafted-tech/toolup/userenv"
)

// Method selects how a downloaded artifact is applied.
type Method int

const (
	// RunExecutable runs the downloaded file as a non-interactive installer.
	RunExecutable Method = iota

	// ExtractArchive clean-installs the archive contents into TargetDir.
	ExtractArchive
)

// Source describes where the artifact comes from: either a fixed URL or the
// latest release of a project.
type Source struct {
	// URL and Filename identify a fixed download. Used when Release is nil.
	URL      string
	Filename string

	// Release resolves the artifact from the latest published release.
	Release *release.Query
}

// Product describes one complete install: where the artifact comes from, how
// it is applied, and what persistent environment it needs.
type Product struct {
	Name       string
	InstallDir string // caller-supplied install root, must be absolute
	TargetDir  string // final extraction dir (ExtractArchive only)
	Source     Source
	Method     Method
	Args       []string // bootstrapper arguments (RunExecutable only)
	Env        []userenv.Var
	PathDirs   []string
	Exe        string // main executable inside TargetDir, for shortcuts
	Force      bool   // reinstall even when the version marker is current
	Shortcut   bool   // add a Start Menu shortcut after install
}

// ToolchainProduct describes the Rust toolchain bootstrap rooted at dir.
// The bootstrapper accepts all defaults and is told to leave PATH alone,
// since the pipeline has already prepended the cargo bin directory itself.
func ToolchainProduct(dir string, cfg Config) Product {
	cargoHome := filepath.Join(dir, "cargo")
	return Product{
		Name:       "Rust toolchain",
		InstallDir: dir,
		Source:     Source{URL: cfg.Toolchain.URL, Filename: "rustup-init.exe"},
		Method:     RunExecutable,
		Args:       []string{"-y", "--no-modify-path"},
		Env: []userenv.Var{
			{Name: "RUSTUP_HOME", Value: filepath.Join(dir, "rustup")},
			{Name: "CARGO_HOME", Value: cargoHome},
		},
		PathDirs: []string{filepath.Join(cargoHome, "bin")},
	}
}

// EditorProduct describes the editor install rooted at dir. The editor lives
// in its own subdirectory of the install root, which also goes on PATH.
func EditorProduct(dir string, cfg Config) Product {
	target := filepath.Join(dir, cfg.Editor.Repo)
	return Product{
		Name:       cfg.Editor.Repo,
		InstallDir: dir,
		TargetDir:  target,
		Source: Source{Release: &release.Query{
			Owner:  cfg.Editor.Owner,
			Repo:   cfg.Editor.Repo,
			Suffix: cfg.Editor.Suffix,
		}},
		Method: ExtractArchive,
		Env: []userenv.Var{
			{Name: "HELIX_RUNTIME", Value: filepath.Join(target, "runtime")},
		},
		PathDirs: []string{target},
		Exe:      cfg.Editor.Exe,
	}
}

// StepSetUserVar creates a Step that persists an environment variable and
// mirrors it into the current process.
func StepSetUserVar(s userenv.Store, name, value string) Step {
	return Step{
		Name: fmt.Sprintf("Set %s", name),
		Action: func() StepResult {
			if err := userenv.SetVar(s, name, value); err != nil {
				return Failed(envStoreError(err))
			}
			return Success(value)
		},
	}
}

// StepAddUserPath creates a Step that ensures dir is on the persisted user
// PATH. Skips when the entry is already present, so repeated runs never grow
// the list.
func StepAddUserPath(s userenv.Store, dir string) Step {
	return Step{
		Name: fmt.Sprintf("Add %s to PATH", dir),
		Action: func() StepResult {
			changed, err := userenv.EnsurePath(s, dir)
			if err != nil {
				return Failed(envStoreError(err))
			}
			if !changed {
				return Skipped("already present")
			}
			return Success("")
		},
	}
}

func envStoreError(err error) error {
	return fmt.Errorf("%w (retry from an elevated shell if access was denied)", err)
}

// Run executes the full install pipeline for p against the given environment
// store: target directory, persistent environment, artifact resolution,
// download, install, cleanup. Stages run strictly in order and the first
// failure aborts the run; temporary artifacts are removed on every exit path
// out of the fetch/install stage.
func Run(p Product, store userenv.Store, log *Logger) error {
	if p.InstallDir == "" {
		return errors.New("install directory is required")
	}
	if !filepath.IsAbs(p.InstallDir) {
		return fmt.Errorf("install directory must be absolute: %s", p.InstallDir)
	}

	// Target directory and persistent environment.
	prepare := []Step{StepEnsureDir(p.InstallDir)}
	for _, v := range p.Env {
		prepare = append(prepare, StepSetUserVar(store, v.Name, v.Value))
	}
	for _, d := range p.PathDirs {
		prepare = append(prepare, StepAddUserPath(store, d))
	}
	if err := RunSteps(fmt.Sprintf("Preparing %s", p.Name), prepare, log); err != nil {
		return err
	}

	// Artifact resolution.
	asset := release.Asset{Name: p.Source.Filename, URL: p.Source.URL}
	if p.Source.Release != nil {
		a, err := release.Latest(*p.Source.Release)
		if err != nil {
			log.Error("Release lookup failed: %v", err)
			return err
		}
		asset = a
		log.Info("Resolved %s %s (%s)", p.Name, asset.Tag, asset.Name)
	}

	if p.Method == ExtractArchive && !p.Force && asset.Tag != "" {
		if installed := ReadVersionMarker(p.TargetDir); installed != "" && IsSameVersion(installed, asset.Tag) {
			fmt.Printf("  %s %s %s is already installed\n", styleSkip.Render("[--]"), p.Name, installed)
			log.Info("%s %s already installed, nothing to do", p.Name, installed)
			return nil
		}
	}

	// Fetch and install. Everything registered in scratch is removed when
	// this stage exits, whether it succeeded or not.
	var scratch []string
	defer func() {
		for _, path := range scratch {
			os.RemoveAll(path)
		}
	}()

	tmpDir, err := os.MkdirTemp("", "toolup-")
	if err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	scratch = append(scratch, tmpDir)
	artifact := filepath.Join(tmpDir, asset.Name)

	install := []Step{StepDownload(asset.Name, asset.URL, artifact)}

	switch p.Method {
	case RunExecutable:
		install = append(install, SimpleStep(fmt.Sprintf("Run %s", asset.Name), func() error {
			return runExecutable(artifact, p.Args)
		}))

	case ExtractArchive:
		var stage string
		install = append(install,
			StepCleanDir(p.TargetDir),
			SimpleStep(fmt.Sprintf("Extract %s", asset.Name), func() error {
				// Staged inside the install root so the later renames
				// stay on one volume.
				s, err := os.MkdirTemp(p.InstallDir, ".toolup-stage-")
				if err != nil {
					return fmt.Errorf("create staging directory: %w", err)
				}
				scratch = append(scratch, s)
				stage = s
				return ExtractZip(artifact, stage)
			}),
			SimpleStep("Install files", func() error {
				return PromoteRoot(stage, p.TargetDir)
			}),
		)
		if asset.Tag != "" {
			install = append(install, StepWriteVersionMarker(p.TargetDir, asset.Tag))
		}
		if p.Shortcut && p.Exe != "" {
			install = append(install, SimpleStep("Create Start Menu shortcut", func() error {
				return platform.CreateUserStartMenuShortcut("", p.Name, platform.Shortcut{
					Target:      filepath.Join(p.TargetDir, p.Exe),
					Description: p.Name,
				})
			}))
		}
	}

	return RunSteps(fmt.Sprintf("Installing %s", p.Name), install, log)
}

// runExecutable launches a downloaded installer and waits for it to exit.
// Output goes straight to the console so the bootstrapper's own progress
// stays visible.
func runExecutable(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run installer: %w", err)
	}
	return nil
}

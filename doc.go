// Package toolup implements a one-shot installer pipeline for developer
// tools on Windows.
//
// An install run is a fixed sequence: resolve and create the target
// directory, persist the user-scope environment (home variables and PATH),
// locate the artifact (a fixed URL or the latest release of a project),
// download it to a temporary location, install it (run a bootstrapper
// non-interactively, or extract an archive and promote its contents), and
// remove every temporary artifact regardless of how the run ended.
//
// # Step Pattern
//
// Each unit of work is a Step with a name and an action:
//
//	steps := []toolup.Step{
//	    toolup.StepEnsureDir(dir),
//	    toolup.SimpleStep("Configure", func() error {
//	        return writeConfig(dir)
//	    }),
//	}
//	if err := toolup.RunSteps("Preparing", steps, log); err != nil {
//	    return err
//	}
//
// Steps run strictly in order; the first failure aborts the run. A step may
// also report that it was skipped (already done), which counts as success.
//
// # Products
//
// The two supported installs are described by Product values built with
// ToolchainProduct and EditorProduct and executed by Run. They share the
// whole pipeline and differ only in how the artifact is located and applied.
package toolup

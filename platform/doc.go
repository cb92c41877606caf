// Package platform provides the Windows-specific pieces of the install
// pipeline.
//
// It implements the userenv.Store interface on top of the per-user registry
// environment (HKCU\Environment), notifies running shells when that
// environment changes, and creates Start Menu shortcuts. On other platforms
// every entry point returns an error: persistence of user-scope environment
// variables is a Windows mechanism and there is no portable equivalent.
package platform

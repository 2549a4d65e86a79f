// Package build compiles the C sources of an FMU archive into native shared libraries
// and inserts them under binaries/<platform>/.
//
// An Orchestrator extracts the artifact into a scratch directory, runs a Toolchain
// (CMake by default) once for the host platform and once per cross target, and adds
// each produced library to the artifact. The scratch directory is removed on every
// exit path.
//
// Failure handling:
//   - Host build: mandatory. A missing toolchain or a failed configure/build step aborts
//     Compile with an error wrapping errs.ErrBuild.
//   - Cross targets: optional. A target whose compiler cannot be located is skipped, a
//     failed build is recorded as a Diagnostic. Neither aborts Compile.
//
// External processes go through a Runner, so tests can substitute MockRunner for
// ExecRunner.
package build

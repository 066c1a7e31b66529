// Package preflight provides readiness checks for external tools, webhook
// endpoints, and filesystem paths that ytscribe depends on.
//
// These checks run in two contexts:
//   - "ytscribe serve" runs RunAll and CheckSystemDeps at startup and logs
//     warnings for anything that fails, without refusing to start.
//   - The CLI "ytscribe status" command renders every result as a table.
package preflight

// Command splitplan drives the split-planning pipeline: it validates input
// documents, resolves where an interrupted session should resume, manages the
// split manifest, and materializes split directories. Machine-facing commands
// emit JSON; status renders for humans unless --json is given.
package main

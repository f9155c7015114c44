// Package all wires every built-in sink backend into the storage registry.
// It exists purely for side effects:
//
//	import _ "salesclean/internal/storage/all"
//
// makes the "csv", "sqlite" and "postgres" kinds available to storage.New.
package all

import (
	_ "salesclean/internal/storage/csvfile"
	_ "salesclean/internal/storage/postgres"
	_ "salesclean/internal/storage/sqlite"
)

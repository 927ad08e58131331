// Package bulk loads delimited text into typed rows and inserts them in
// chunks that respect the driver's bound-parameter ceiling.
//
// # Loading
//
// Load reads a header row followed by data rows. Headers are matched to the
// csv struct tags of the row type after snake-casing both, so "SysGeneName",
// "sys_gene_name" and "sysGeneName" name the same column. Unknown headers
// are ignored. Every data row is decoded and validated independently;
// failures are collected in Container.Errors with their zero-based data-row
// index and never stop the stream.
//
// # Inserting
//
// Insert refuses a container with any row errors. Otherwise it splits the
// rows into consecutive chunks of ChunkSize rows and issues one
// INSERT OR IGNORE statement per chunk, in source order. Rows that collide
// with an existing key are skipped silently. The first failing chunk stops
// the run; chunks already executed stay applied unless the Execer is a
// transaction the caller rolls back.
package bulk

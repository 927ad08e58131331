// Package records declares the record types of the strain database and,
// for each of them, the closed set of fields that filters may refer to.
//
// Every field type is an int enumeration with two exhaustive switches:
// Column (the physical column, used by the SQL compiler) and String (the
// external name used by UI, CLI and import headers). External names are
// matched after snake-casing, so "SysGeneName", "sysGeneName" and
// "sys_gene_name" all parse to AlleleSysGeneName.
//
// Struct tags:
//   - csv: external column name for bulk import
//   - json: output name (equal to the physical column)
//   - validate: row validation applied by the bulk loader
package records

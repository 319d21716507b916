// Package attributes evaluates user-supplied expressions into span attributes
// for filesystem operations.
//
// Expressions use the expr language and see one variable per operation field:
//
//	op      string  getattr, readdir, open or read
//	path    string  the request path
//	pid     string  the process identifier, empty for the root
//	offset  int     read offset, 0 for other operations
//	size    int     bytes requested by read, or the reported file size
//
// An expression returning a map expands into one attribute per key, named
// NAME.KEY with the key sanitized.
package attributes

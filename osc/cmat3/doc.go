// Package cmat3 provides fixed-size complex 3x3 matrix and 3-vector algebra
// for the oscillation kernels.
//
// Every value is a plain array ([Matrix], [Vector], [RealMatrix]) so a
// whole working set lives on the stack of one goroutine and no operation
// allocates. The element type is generic over [Float], which lets the
// engine pick float32 or float64 once at compile time.
//
// Functions follow the destination-first convention of the builtin copy:
//
//	cmat3.Clear(&c)
//	cmat3.MulAcc(&c, &a, &b) // c += a*b
//	cmat3.Mul(&c, &a, &b)    // c  = a*b
//
// [MulAcc] accumulates into its destination and never clears it; [Mul]
// overwrites. Operations whose result would be corrupted by overlapping
// storage panic with [ErrAliasing] when handed the same array twice.
package cmat3

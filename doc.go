// Package luafcheck is a small static type checker for lua source. It infers
// the primitive type of every variable from the first value assigned to it,
// reports a variable assigned a value of another type later on, names used
// before they are assigned, binary operations over mismatched types and calls
// into the re module that are not handed strings.
//
//	`luafcheck` does not scope. Every name lives in one table for the whole
//	chunk, functions and blocks included, and only literals, names, binary
//	operations and the int, float, string and bool conversions have a type.
//	Everything else is unknown and never conflicts with anything.
//
// Check and CheckFile only check. A Pipeline checks and then runs clean
// source with the command configured for its language, which is what the
// luafcheck command and its playground do.
package luafcheck

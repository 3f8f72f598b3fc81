// Package libdiff computes structural differences between trees.
//
// A diff is itself a tree. Unchanged parts are absent; changed parts are
// marked with tags:
//
//	!insert      a value present only in the target
//	!delete      a value present only in the source
//	!replace     an object {from, to} for a changed value
//	!arraydiff   an object keyed by array index
//	!addtype(t), !rmtype(t), !retype(f,t)
//	             a null node recording a BSON type change alone
//
// Object fields and array elements are aligned with diffmatchpatch, so a
// field inserted in the middle of an object shows up as one insertion
// rather than as a change to every following field.
package libdiff

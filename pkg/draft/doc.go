// Package draft is the form state store behind the application wizard: one
// mutable ApplicationDraft per visitor, updated by merging partial field sets
// and pre-populated once from the signed-in profile without clobbering
// anything the citizen already typed.
package draft

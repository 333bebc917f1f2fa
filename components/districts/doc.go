// Package districts serves the district list of Uganda as JSON options for
// the location step's District input.
//
// The handler answers GET and HEAD with {"data":[{value,label,region}]}.
// Matching is case-insensitive: prefix matches rank before substring
// matches, and when nothing contains the query the closest names by edit
// distance are offered so a typo such as "Mukno" still finds Mukono. The
// backing data is embedded from data/districts.txt.
package districts

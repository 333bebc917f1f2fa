// Package wizard implements the step controller of the land title
// application flow: five fixed stages walked one step at a time.
//
// Advancing is unconditional by default. Installing a Gate (see
// validation.StepComplete) turns on per-step completeness checks through
// AdvanceWith; Advance itself never consults the gate.
package wizard

// Package form materializes a survey schema into live question widgets.
//
// A Form is built once per page load (one render pass, including the
// randomization of flagged blocks). Interaction events mutate widget state;
// answering a branching single question inserts or removes its branch target
// immediately after it. Validate checks every currently rendered question and
// Payload flattens them into the submission map.
//
// A Form is not safe for concurrent use. Callers serialize events per form.
package form

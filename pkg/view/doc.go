// Package view turns wizard state into renderer-facing form models. It owns
// the mapping between the draft and the controls a front end shows: field
// order, input types, placeholders, plan options, the submit control and the
// surrounding chrome (title, footer, navigation links).
package view

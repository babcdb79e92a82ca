// Package selection pairs extracted document chunks with retrieved grounding
// passages to form the content units the orchestrator prompts for.
//
// Ordering matters downstream: quota allocation favours the first units, so
// the Diversifier shuffles chunks reproducibly before selection and Reverse
// gives the second generation pass a different assignment of extra questions.
package selection

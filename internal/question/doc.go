// Package question runs ordered sequences of typed questions against a
// prompt.Console and collects the answers.
//
// A sequence is a slice of Question descriptors. Run checks the whole
// sequence before asking anything, then walks it in order: skip
// predicates are evaluated against earlier answers, each question is read
// until its prompter accepts a line, and follow-up questions run in place
// when their predicate holds.
package question

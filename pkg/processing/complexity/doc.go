// Package complexity rates how demanding a user utterance is.
//
// Classifier.Rate returns a score in [0, 1]. Utterances with more characters
// than the short-circuit length score 1.0 immediately; shorter ones
// are sent to an inexpensive rate model that answers with
// {"complexity": <score>}. Unusable replies fall through to the next
// credential and an exhausted pool yields the configured default score.
package complexity

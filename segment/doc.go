// Package segment splits extracted page text into labeled sections in
// reading order: headings, captions, lists, and body text.
//
// Categorization is rule-based, not NLP. Short, early, lightly punctuated
// blocks are headings; blocks opening with a figure or table reference are
// captions; blocks whose lines carry bullet or number prefixes are lists;
// everything else is body. Keyword extraction tokenizes on non-letter
// boundaries, applies a stoplist, and keeps the data-related vocabulary that
// the relationship mapper scores against.
//
// Empty or whitespace-only input yields an empty result, never an error.
package segment

// Package expr filters rules with CEL (Common Expression Language).
//
// Expressions see a single variable, `rule`, with the fields:
//   - `rule.id` (string)
//   - `rule.name` (string)
//   - `rule.expression` (string)
//   - `rule.root` (string): the root node reference in text form
//   - `rule.postfix` (list<string>)
//
// Besides the standard library and the strings and lists extensions, the
// environment provides `fold(string)`, which case-folds and strips
// diacritics, and `operators(list<string>)`, which keeps the AND and OR
// tokens of a postfix expression.
package expr

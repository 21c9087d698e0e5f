// Package formula resolves user-authored field formulas against a row.
//
// A formula is plain text with four kinds of substitution, applied in order:
//
//	$NAME              profile variable (may reference other variables)
//	{COL} {COL || x}   row column, with an optional fallback
//	PROJECT_EFF, PROJECT_EXP, SYSDATE, SEQ
//	UPPER(...) ...     built-in functions, innermost first
//
// Resolution always produces a string. Missing data degrades to empty
// strings, fallbacks or unchanged text; it never returns an error.
package formula

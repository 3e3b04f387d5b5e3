// Package schema provides the per-tab rule sets used by the stepper engine.
//
// A Schema validates a flat mapping of field name to value and reports issues
// keyed by field name. Object schemas are built from typed field rules
// (String, Bool, Number) plus optional cross-field refinements:
//
//	password := schema.Object(
//		schema.Field("password", schema.String().MinLength(8, "Password must be at least 8 characters")),
//		schema.Field("confirmPassword", schema.String()),
//	).Refine(func(v map[string]any) bool {
//		return v["password"] == v["confirmPassword"]
//	}, "Passwords do not match", "confirmPassword")
//
// Absent fields validate as their zero default ("" for strings, false for
// booleans). A value of the wrong kind, including NaN for numbers, is present
// but invalid and yields an issue rather than an error.
package schema

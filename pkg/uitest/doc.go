// Package uitest provides helpers for testing Bubble Tea models.
//
// [NewTestModel] runs any model whose Update returns its concrete type under
// teatest. [PlainText] and [ContainsText] compare rendered views without ANSI
// styling. [Backend] is an in-memory rule service that counts its calls:
//
//	be := &uitest.Backend{Rules: []rule.Rule{{ID: "1", Name: "Adult"}}}
//	tm := uitest.NewTestModel(t, NewModel(be), uitest.Standard)
//
//	uitest.WaitFor(t, tm.Output(), uitest.ContainsText("Adult"))
package uitest

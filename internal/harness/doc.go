// Package harness runs catalog selection scenarios.
//
// A scenario bundles a small catalog with a list of cases. Each case parses
// a condition, selects comparable combinations, or suggests next criteria,
// and checks the outcome against its expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	settings:
//	  match: literal        # or regex
//	  control: control      # baseline covariate level
//	  control_prefix: false
//	  store: false          # route the catalog through an in-memory store
//	catalog:
//	  - id: c1
//	    bioproject: PRJ1
//	    condition: '(Region=="hipp") & (Stress.protocol=="control")'
//	    covariate: Stress.protocol
//	    dimensions: [Region, Stress.protocol]
//	cases:
//	  - name: hippocampus
//	    mode: select        # select, suggest, parse or options
//	    query: 'Region=="hipp"'
//	    bioproject: PRJ1
//	    expect:
//	      selected: [c1]
//
// # Expectations
//
// Only the fields a case names are checked:
//
//   - selected: combination ids returned by select, in catalog order
//   - options: suggested clauses, in suggestion order
//   - survivors: number of combinations suggestion mode kept
//   - canonical, length, tree: parse results
//   - dimensions: values per dimension key for options mode
//   - error: substring of the error the case must fail with
//
// # Golden Files
//
// RunWithGolden snapshots every case outcome as canonical JSON under
// testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness

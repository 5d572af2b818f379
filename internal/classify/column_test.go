package classify

import (
	"reflect"
	"testing"

	"intake/internal/schema"
)

// TestColumn_TypeInference verifies the winning type and confidence for
// representative value mixes.
func TestColumn_TypeInference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		column   string
		values   []string
		wantType schema.FieldType
		wantConf float64
	}{
		{
			name:     "ids_with_name_hint",
			column:   "TaskID",
			values:   []string{"T001", "T002", "T003"},
			wantType: schema.TypeID,
			wantConf: 0.80, // 50 name hint + 30 * full shape match
		},
		{
			name:     "numbers",
			column:   "Duration",
			values:   []string{"1", "2.5", "3"},
			wantType: schema.TypeNumber,
			wantConf: 1.0,
		},
		{
			name:     "booleans",
			column:   "Active",
			values:   []string{"yes", "no", "true"},
			wantType: schema.TypeBoolean,
			wantConf: 1.0,
		},
		{
			// "1" and "0" satisfy both number and boolean; the earlier
			// candidate in the declared order wins the tie.
			name:     "numeric_booleans_resolve_to_number",
			column:   "Active",
			values:   []string{"1", "0", "1"},
			wantType: schema.TypeNumber,
			wantConf: 1.0,
		},
		{
			name:     "dates",
			column:   "StartDate",
			values:   []string{"2024-01-15", "2024/02/01", "01/30/2024"},
			wantType: schema.TypeDate,
			wantConf: 1.0,
		},
		{
			// Two of three values are well-formed addresses.
			name:     "emails_with_one_bad_value",
			column:   "Email",
			values:   []string{"a@b.com", "bad", "c@d.io"},
			wantType: schema.TypeEmail,
			wantConf: 2.0 / 3.0,
		},
		{
			name:     "urls",
			column:   "Homepage",
			values:   []string{"https://example.com", "http://a.io/x"},
			wantType: schema.TypeURL,
			wantConf: 1.0,
		},
		{
			name:     "json_objects",
			column:   "AttributesJSON",
			values:   []string{`{"a":1}`, `{"b":[2,3]}`},
			wantType: schema.TypeJSON,
			wantConf: 1.0,
		},
		{
			name:     "bracketed_arrays",
			column:   "Slots",
			values:   []string{"[1,2]", "[3]"},
			wantType: schema.TypeArray,
			wantConf: 1.0,
		},
		{
			// Nothing scores; the winner falls below the confidence floor
			// and the column degrades to string.
			name:     "low_confidence_forces_string",
			column:   "Notes",
			values:   []string{"abc", "xyz", "hello"},
			wantType: schema.TypeString,
			wantConf: 0,
		},
		{
			name:     "empty_column_is_string",
			column:   "Blank",
			values:   []string{"", "", ""},
			wantType: schema.TypeString,
			wantConf: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			col := Column(tc.column, tc.values)
			if col.Type != tc.wantType {
				t.Fatalf("Column(%q).Type=%s, want %s (confidence=%v)", tc.column, col.Type, tc.wantType, col.Confidence)
			}
			if diff := col.Confidence - tc.wantConf; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Column(%q).Confidence=%v, want %v", tc.column, col.Confidence, tc.wantConf)
			}
		})
	}
}

// TestColumn_RequiredFlag verifies the strict missing-fraction boundary over
// all rows, not the sample.
func TestColumn_RequiredFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{name: "no_missing", values: []string{"1", "2", "3"}, want: true},
		{name: "quarter_missing", values: []string{"1", "", "3", "4"}, want: false},
		{
			// 1 of 10 missing is exactly the boundary, which is excluded.
			name:   "exact_boundary_not_required",
			values: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", ""},
			want:   false,
		},
		{
			// 1 of 20 missing is strictly below the boundary.
			name: "below_boundary_required",
			values: []string{
				"1", "2", "3", "4", "5", "6", "7", "8", "9", "10",
				"11", "12", "13", "14", "15", "16", "17", "18", "19", "",
			},
			want: true,
		},
		{name: "empty_table_never_required", values: nil, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Column("v", tc.values).Required; got != tc.want {
				t.Fatalf("Required=%v, want %v", got, tc.want)
			}
		})
	}
}

// TestColumn_UniqueFlag verifies uniqueness over all non-empty values.
func TestColumn_UniqueFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{name: "all_distinct", values: []string{"a1", "b2", "c3"}, want: true},
		{name: "duplicate", values: []string{"a1", "b2", "a1"}, want: false},
		{name: "single_value_not_unique", values: []string{"a1"}, want: false},
		{name: "empties_ignored", values: []string{"a1", "", "b2", ""}, want: true},
		{name: "empty_column_not_unique", values: []string{"", ""}, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Column("v", tc.values).Unique; got != tc.want {
				t.Fatalf("Unique=%v, want %v", got, tc.want)
			}
		})
	}
}

// TestColumn_Bounds verifies the derived validation constraints.
func TestColumn_Bounds(t *testing.T) {
	t.Parallel()

	t.Run("priority_name_gets_fixed_range", func(t *testing.T) {
		t.Parallel()

		col := Column("PriorityLevel", []string{"7", "9"})
		if col.Validation == nil || col.Validation.Min == nil || col.Validation.Max == nil {
			t.Fatalf("priority column missing bounds: %+v", col.Validation)
		}
		if *col.Validation.Min != 1 || *col.Validation.Max != 5 {
			t.Fatalf("priority bounds=(%v,%v), want (1,5)", *col.Validation.Min, *col.Validation.Max)
		}
	})

	t.Run("number_gets_sampled_extrema", func(t *testing.T) {
		t.Parallel()

		col := Column("Budget", []string{"10", "-2.5", "40"})
		if col.Validation == nil || col.Validation.Min == nil || col.Validation.Max == nil {
			t.Fatalf("number column missing bounds: %+v", col.Validation)
		}
		if *col.Validation.Min != -2.5 || *col.Validation.Max != 40 {
			t.Fatalf("bounds=(%v,%v), want (-2.5,40)", *col.Validation.Min, *col.Validation.Max)
		}
	})

	t.Run("small_string_domain_gets_enum", func(t *testing.T) {
		t.Parallel()

		col := Column("Status", []string{"open", "closed", "open", "pending"})
		if col.Validation == nil {
			t.Fatalf("expected enum bounds, got nil")
		}
		want := []string{"open", "closed", "pending"}
		if !reflect.DeepEqual(col.Validation.Enum, want) {
			t.Fatalf("Enum=%v, want %v (first-seen order)", col.Validation.Enum, want)
		}
	})

	t.Run("wide_string_domain_gets_no_enum", func(t *testing.T) {
		t.Parallel()

		vals := make([]string, 0, 12)
		for _, s := range []string{"aa", "bb", "cc", "dd", "ee", "ff", "gg", "hh", "ii", "jj", "kk", "ll"} {
			vals = append(vals, s)
		}
		if col := Column("Notes", vals); col.Validation != nil {
			t.Fatalf("expected nil bounds for 12 distinct values, got %+v", col.Validation)
		}
	})
}

// TestMatchers spot-checks the per-value predicates.
func TestMatchers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pred func(string) bool
		in   string
		want bool
	}{
		{name: "id_letter_digits", pred: LooksLikeID, in: "W0042", want: true},
		{name: "id_long_token", pred: LooksLikeID, in: "a1b2c3d4", want: true},
		{name: "id_short_word", pred: LooksLikeID, in: "cat", want: false},
		{name: "number_float", pred: LooksLikeNumber, in: "-3.25", want: true},
		{name: "number_word", pred: LooksLikeNumber, in: "three", want: false},
		{name: "bool_y", pred: LooksLikeBoolean, in: "Y", want: true},
		{name: "bool_maybe", pred: LooksLikeBoolean, in: "maybe", want: false},
		{name: "date_iso", pred: LooksLikeDate, in: "2024-01-15", want: true},
		{name: "date_european", pred: LooksLikeDate, in: "15.01.2024", want: true},
		{name: "date_garbage", pred: LooksLikeDate, in: "yesterday", want: false},
		{name: "email_plain", pred: LooksLikeEmail, in: "user@example.com", want: true},
		{name: "email_no_tld", pred: LooksLikeEmail, in: "user@host", want: false},
		{name: "url_https", pred: LooksLikeURL, in: "https://example.com/path", want: true},
		{name: "url_relative", pred: LooksLikeURL, in: "/path/only", want: false},
		{name: "json_object", pred: LooksLikeJSON, in: `{"k":true}`, want: true},
		{name: "json_trailing", pred: LooksLikeJSON, in: `{"k":}`, want: false},
		{name: "array_brackets", pred: LooksLikeArray, in: "[1,2,3]", want: true},
		{name: "array_csv", pred: LooksLikeArray, in: "red,green", want: true},
		{name: "array_scalar", pred: LooksLikeArray, in: "red", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.pred(tc.in); got != tc.want {
				t.Fatalf("%s(%q)=%v, want %v", tc.name, tc.in, got, tc.want)
			}
		})
	}
}

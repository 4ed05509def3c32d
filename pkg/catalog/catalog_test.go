package catalog

import (
	"reflect"
	"testing"
)

func TestCatalog_ReplaceBumpsVersion(t *testing.T) {
	c := New()
	if c.Version() != 0 || c.Len() != 0 {
		t.Fatalf("new catalog: version=%d len=%d", c.Version(), c.Len())
	}

	c.Replace(testRecords())
	if c.Version() != 1 {
		t.Errorf("version = %d, want 1", c.Version())
	}
	if c.Len() != len(testRecords()) {
		t.Errorf("len = %d, want %d", c.Len(), len(testRecords()))
	}

	c.Replace(nil)
	if c.Version() != 2 || c.Len() != 0 {
		t.Errorf("after second replace: version=%d len=%d", c.Version(), c.Len())
	}
}

func TestCatalog_DerivedViewsFollowReplace(t *testing.T) {
	c := New()
	c.Replace(testRecords())

	sections := c.Sections()
	if len(sections) != 3 {
		t.Fatalf("sections = %v", sections)
	}
	min, max := c.YearBounds()
	if min != 2008 || max != 2015 {
		t.Errorf("YearBounds = (%d, %d)", min, max)
	}

	// Wholesale replace must invalidate the memoized views.
	c.Replace([]Record{{ID: 1, Period: ReleasePeriod{Year: "2020", Months: []string{"01"}}, Section: "Haber"}})
	if got := c.Sections(); !reflect.DeepEqual(got, []string{"Haber"}) {
		t.Errorf("Sections after replace = %v, want [Haber]", got)
	}
	min, max = c.YearBounds()
	if min != 2020 || max != 2020 {
		t.Errorf("YearBounds after replace = (%d, %d), want (2020, 2020)", min, max)
	}
}

func TestCatalog_FilterMemo(t *testing.T) {
	c := New()
	c.Replace(testRecords())

	criteria := Criteria{Sections: []string{"İnceleme"}}
	first := c.Filter(criteria)
	second := c.Filter(criteria)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Filter with equal criteria returned different results")
	}

	// Different criteria must not be served from the memo.
	other := c.Filter(Criteria{Sections: []string{"Donanım"}})
	if reflect.DeepEqual(first, other) {
		t.Error("different criteria returned the memoized result")
	}

	// A replace must supersede the memo.
	c.Replace(nil)
	if got := c.Filter(criteria); len(got) != 0 {
		t.Errorf("Filter after replace = %v, want empty", got)
	}
}

func TestCatalog_IndependentInstances(t *testing.T) {
	a := New()
	b := New()
	a.Replace(testRecords())

	if b.Len() != 0 {
		t.Errorf("catalog b sees %d records from catalog a", b.Len())
	}
	if len(b.Sections()) != 0 {
		t.Errorf("catalog b derived views leak: %v", b.Sections())
	}
}

func TestCatalog_ReloadWithoutDir(t *testing.T) {
	c := New()
	if err := c.Reload(); err == nil {
		t.Error("Reload on a never-loaded catalog succeeded")
	}
}

package record

import (
	"testing"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// benchmarkFragments is the fragment set of a typical map product.
func benchmarkFragments(b *testing.B) []Fragment {
	cat := catalogue.MustDefault()
	s := cat.MustSettings()

	bas, _ := cat.Organisation("bas")
	watson, _ := cat.Individual("watson_constance")
	licence, _ := cat.Licence("OGL_UK_3_0")
	access, _ := cat.AccessRestriction("anonymous")
	pdf, _ := cat.Format("pdf")
	extent, _ := cat.Extent("antarctic_peninsula")
	published, _ := cat.Collection(s.CollectionPublishedMaps)

	distributor, err := Distributor(cat, s, Product, licence)
	if err != nil {
		b.Fatal(err)
	}
	publication, err := NewImpreciseDate(2014, 5, 1)
	if err != nil {
		b.Fatal(err)
	}

	return []Fragment{
		FileIdentifierFragment(testFileIdentifier),
		ResourceTypeFragment(Product),
		TitleFragment("Antarctic Peninsula"),
		AbstractFragment("A general interest map of the Antarctic Peninsula."),
		DatesFragment(map[string]ImpreciseDate{"publication": publication}),
		IdentifiersFragment(SelfIdentifier(testFileIdentifier, s)),
		ContactsFragment(AuthorContact(watson, bas)),
		ConstraintsFragment(access, licence),
		ExtentsFragment(NewExtent(BoundingExtentID, extent.Geographic, nil)),
		CollectionsFragment(s, published),
		ScaleFragment(1000000),
		DistributionFragment(DownloadDistributionOption(pdf, "https://example.com/map.pdf", distributor, 2048)),
	}
}

// BenchmarkAssemble measures one assembly, which runs on every fragment change.
func BenchmarkAssemble(b *testing.B) {
	a := newTestAssembler(b)
	fragments := benchmarkFragments(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Assemble(fragments...)
	}
}

// BenchmarkAssembleParallel measures assembly with a shared assembler.
func BenchmarkAssembleParallel(b *testing.B) {
	a := newTestAssembler(b)
	fragments := benchmarkFragments(b)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = a.Assemble(fragments...)
		}
	})
}

func BenchmarkAssembleRecord(b *testing.B) {
	a := newTestAssembler(b)
	fragments := benchmarkFragments(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.AssembleRecord(fragments...); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStripMarkdown(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = StripMarkdown("_Antarctic_ Peninsula, **1:1,000,000**")
	}
}

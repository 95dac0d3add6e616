package invoice

import (
	"testing"

	"github.com/garyjia/invoice-labeler/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const sampleInvoice = `Faktura VAT nr FV 12/03/2025
Data wystawienia: 14.03.2025
Sprzedawca:
Acme Sp. z o.o.
ul. Prosta 1, 00-001 Warszawa
NIP: 5270103391
Nabywca:
Beta S.A.
NIP: 1132853869
`

func TestExtractor_Extract(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())

	fields := extractor.Extract(sampleInvoice)

	assert.Equal(t, models.FoundField("Acme Sp. z o.o."), fields.Vendor)
	assert.Equal(t, models.FoundField("1132853869"), fields.BuyerTaxID)
	assert.Equal(t, models.FoundField("FV 12/03/2025"), fields.InvoiceNumber)
}

func TestExtractor_Extract_EmptyText(t *testing.T) {
	fields := NewExtractor(nil).Extract("")

	assert.False(t, fields.Vendor.Found)
	assert.False(t, fields.BuyerTaxID.Found)
	assert.False(t, fields.InvoiceNumber.Found)
	assert.Equal(t, models.VendorNotFound, fields.VendorOrSentinel())
	assert.Equal(t, models.BuyerTaxIDMissing, fields.BuyerTaxIDOrSentinel())
	assert.Equal(t, models.InvoiceNumberUnknown, fields.InvoiceNumberOrSentinel())
}

func TestVendorChain(t *testing.T) {
	chain := VendorChain()

	tests := []struct {
		name     string
		text     string
		want     string
		wantRule string
	}{
		{
			name:     "label on its own line",
			text:     "Sprzedawca:\nAcme Sp. z o.o.\nNIP: 5270103391\n",
			want:     "Acme Sp. z o.o.",
			wantRule: "seller_label",
		},
		{
			name:     "label and name on one line",
			text:     "Sprzedawca: Acme Sp. z o.o.  \nul. Prosta 1\n",
			want:     "Acme Sp. z o.o.",
			wantRule: "seller_label",
		},
		{
			name:     "label without colon in lower case",
			text:     "sprzedawca\n  Gamma S.A.\n",
			want:     "Gamma S.A.",
			wantRule: "seller_label",
		},
		{
			name:     "company marker line when label is absent",
			text:     "Faktura 18/11/2023\nNabywca: Beta Sp. z o.o.\nNIP 5270103391 sp.\nGamma Sp. j.\n",
			want:     "Gamma Sp. j.",
			wantRule: "company_marker_line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := chain.Extract(tt.text)

			assert.Equal(t, models.FoundField(tt.want), got)
			assert.Equal(t, tt.wantRule, rule)
		})
	}

	t.Run("nothing matches", func(t *testing.T) {
		got, rule := chain.Extract("Faktura 18/11/2023\nRazem 100,00 PLN\n")

		assert.Equal(t, models.Missing(), got)
		assert.Empty(t, rule)
	})
}

func TestBuyerTaxIDChain(t *testing.T) {
	chain := BuyerTaxIDChain()

	tests := []struct {
		name     string
		text     string
		want     models.Field
		wantRule string
	}{
		{
			name:     "labelled number in buyer section wins over seller",
			text:     sampleInvoice,
			want:     models.FoundField("1132853869"),
			wantRule: "buyer_section_nip",
		},
		{
			name:     "label without separator",
			text:     "Nabywca\nNIP1132853869\n",
			want:     models.FoundField("1132853869"),
			wantRule: "buyer_section_nip",
		},
		{
			name:     "no buyer section searches whole text",
			text:     "Sprzedawca\nAcme\nNIP: 5270103391\n",
			want:     models.FoundField("5270103391"),
			wantRule: "buyer_section_nip",
		},
		{
			name:     "buyer section without label falls back to first standalone number",
			text:     "NIP: 5270103391\nNabywca:\nBeta S.A.\n1132853869\n",
			want:     models.FoundField("5270103391"),
			wantRule: "standalone_ten_digits",
		},
		{
			name:     "longer digit runs are not tax IDs",
			text:     "Konto 12345678901234567890123456\nTel. 2212345678\n",
			want:     models.FoundField("2212345678"),
			wantRule: "standalone_ten_digits",
		},
		{
			name: "no ten digit number",
			text: "Nabywca: Beta S.A.\nNIP: 123-456-78\n",
			want: models.Missing(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := chain.Extract(tt.text)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}

func TestInvoiceNumberChain(t *testing.T) {
	chain := InvoiceNumberChain()

	tests := []struct {
		name     string
		text     string
		want     models.Field
		wantRule string
	}{
		{
			name:     "letter prefix",
			text:     "Faktura nr FZ 328/01/2023\n",
			want:     models.FoundField("FZ 328/01/2023"),
			wantRule: "prefixed_number",
		},
		{
			name:     "letter prefix with whitespace run",
			text:     "Faktura nr FZ  \n328/01/2023\n",
			want:     models.FoundField("FZ 328/01/2023"),
			wantRule: "prefixed_number",
		},
		{
			name:     "dash separators and short year",
			text:     "Nr: A-12-5-23 oraz FV12-5-23\n",
			want:     models.FoundField("FV12-5-23"),
			wantRule: "prefixed_number",
		},
		{
			name:     "bare number",
			text:     "Faktura nr 18/11/2023\n",
			want:     models.FoundField("18/11/2023"),
			wantRule: "bare_number",
		},
		{
			name: "neither pattern",
			text: "Faktura pro forma\nData 14.03.2025\n",
			want: models.Missing(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := chain.Extract(tt.text)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}

func TestBuildDocumentText(t *testing.T) {
	tests := []struct {
		name  string
		pages [][]string
		want  string
	}{
		{name: "no pages", pages: nil, want: ""},
		{name: "single page", pages: [][]string{{"Sprzedawca:", "Acme"}}, want: "Sprzedawca:\nAcme\n"},
		{name: "pages in order", pages: [][]string{{"a", "b"}, {"c"}}, want: "a\nb\nc\n"},
		{name: "empty page keeps separator", pages: [][]string{{"a"}, nil, {"c"}}, want: "a\n\nc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildDocumentText(tt.pages))
		})
	}
}

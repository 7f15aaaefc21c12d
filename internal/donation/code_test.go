package donation_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ptnguyen/fundflow/internal/donation"
)

var _ = Describe("Code", func() {
	Describe("String", func() {
		It("should render as TS-{campaign}-{unix}", func() {
			issued := time.Unix(1722500000, 0)
			code := donation.NewCode(42, issued)
			Expect(code.String()).To(Equal("TS-42-1722500000"))
		})
	})

	Describe("ParseCode", func() {
		It("should round-trip a generated code", func() {
			issued := time.Unix(1722500000, 0)
			original := donation.NewCode(7, issued)

			parsed, err := donation.ParseCode(original.String())

			Expect(err).ToNot(HaveOccurred())
			Expect(parsed.CampaignID).To(Equal(int64(7)))
			Expect(parsed.IssuedAt.Unix()).To(Equal(int64(1722500000)))
		})

		It("should reject the wrong segment count", func() {
			_, err := donation.ParseCode("TS-42")
			Expect(err).To(HaveOccurred())

			_, err = donation.ParseCode("TS-42-100-extra")
			Expect(err).To(HaveOccurred())
		})

		It("should reject an unknown prefix", func() {
			_, err := donation.ParseCode("XX-42-1722500000")
			Expect(err).To(HaveOccurred())
		})

		It("should reject non-numeric segments", func() {
			_, err := donation.ParseCode("TS-abc-1722500000")
			Expect(err).To(HaveOccurred())

			_, err = donation.ParseCode("TS-42-later")
			Expect(err).To(HaveOccurred())
		})

		It("should reject non-positive identifiers", func() {
			_, err := donation.ParseCode("TS-0-1722500000")
			Expect(err).To(HaveOccurred())

			_, err = donation.ParseCode("TS--5-1722500000")
			Expect(err).To(HaveOccurred())
		})

		It("should reject free-form bank transfer notes", func() {
			_, err := donation.ParseCode("chuyen tien ung ho")
			Expect(err).To(HaveOccurred())

			_, err = donation.ParseCode("")
			Expect(err).To(HaveOccurred())
		})
	})
})

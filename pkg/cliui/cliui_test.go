package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/llmstxt/pkg/cliui"
)

var _ = Describe("cliui", func() {
	Describe("FormatDuration", func() {
		It("uses milliseconds below one second", func() {
			Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
		})

		It("uses seconds with one decimal otherwise", func() {
			Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
		})
	})

	Describe("Mark", func() {
		It("differs for success and failure", func() {
			Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
			Expect(cliui.Mark(errors.New("x"))).To(Equal(cliui.FailMark))
		})
	})

	Describe("Step", func() {
		It("returns the function error and prints the message", func() {
			var buf bytes.Buffer
			err := cliui.Step(&buf, "Generating", func() error { return errors.New("boom") })
			Expect(err).To(MatchError("boom"))
			Expect(buf.String()).To(ContainSubstring("Generating"))
			Expect(buf.String()).To(HaveSuffix("\n"))
		})
	})

	Describe("ProgressLine", func() {
		It("includes the counts and the URL", func() {
			line := cliui.ProgressLine(3, 12, "https://example.com/docs")
			Expect(line).To(ContainSubstring(" 3/12"))
			Expect(line).To(ContainSubstring("https://example.com/docs"))
		})
	})

	Describe("RenderMarkdown", func() {
		It("keeps the document text", func() {
			out, err := cliui.RenderMarkdown("# Example\n\n> Docs for example.\n", 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Example"))
			Expect(out).To(ContainSubstring("Docs for example."))
		})
	})
})

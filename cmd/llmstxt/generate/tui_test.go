package generatecmder

import (
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func update(m streamModel, msg tea.Msg) (streamModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(streamModel), cmd
}

var _ = Describe("streamModel", func() {
	var (
		model     streamModel
		cancelled int
	)

	BeforeEach(func() {
		cancelled = 0
		model = newStreamModel("https://example.com", func() { cancelled++ })
	})

	It("shows discovery before any page is known", func() {
		Expect(model.View()).To(ContainSubstring("Discovering pages"))
		Expect(model.View()).To(ContainSubstring("https://example.com"))
	})

	It("tracks discovery and progress", func() {
		model, _ = update(model, discoveredMsg{total: 4})
		Expect(model.total).To(Equal(4))

		model, cmd := update(model, progressMsg{url: "https://example.com/docs", done: 1, total: 4})
		Expect(cmd).NotTo(BeNil())
		Expect(model.done).To(Equal(1))
		Expect(model.percent()).To(BeNumerically("~", 0.25))
		Expect(model.View()).To(ContainSubstring("1/4"))
		Expect(model.View()).To(ContainSubstring("https://example.com/docs"))
	})

	It("quits with the result on done", func() {
		model, cmd := update(model, resultMsg{text: "# Example\n"})
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.Quit()))

		out := model.outcome()
		Expect(out.hasResult).To(BeTrue())
		Expect(out.result).To(Equal("# Example\n"))
		Expect(out.err()).NotTo(HaveOccurred())
		Expect(model.View()).To(BeEmpty())
	})

	It("quits with the message on failure", func() {
		model, _ = update(model, failedMsg{message: "crawl failed"})
		Expect(model.outcome().err()).To(MatchError("generation failed: crawl failed"))
	})

	It("reports a stream that ended without a result", func() {
		model, _ = update(model, streamEndedMsg{})
		Expect(model.outcome().err()).To(MatchError(ContainSubstring("without a result")))
	})

	It("cancels the stream on ctrl+c", func() {
		model, cmd := update(model, tea.KeyMsg{Type: tea.KeyCtrlC})
		Expect(cmd).NotTo(BeNil())
		Expect(cancelled).To(Equal(1))
		Expect(model.outcome().err()).To(MatchError(ErrCancelled))
	})

	It("ignores other keys", func() {
		model, cmd := update(model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		Expect(cmd).To(BeNil())
		Expect(cancelled).To(BeZero())
		Expect(model.finished).To(BeFalse())
	})

	It("caps the progress bar width", func() {
		model, _ = update(model, tea.WindowSizeMsg{Width: 200, Height: 40})
		Expect(model.progress.Width).To(Equal(maxProgressWidth))

		model, _ = update(model, tea.WindowSizeMsg{Width: 30, Height: 40})
		Expect(model.progress.Width).To(Equal(26))
	})
})

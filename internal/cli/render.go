package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/fintrack/internal/model"
)

const dateLayout = "2006-01-02"

// Renderer writes engine results for a terminal.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
}

// Transactions prints transactions one per row.
func (r *Renderer) Transactions(txns []model.Transaction, categoryNames map[int]string) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(r.w, FormatInfo("No transactions found"))
		return err
	}

	tw := r.table()
	fmt.Fprintln(tw, BoldStyle.Render("DATE")+"\t"+BoldStyle.Render("AMOUNT")+"\t"+
		BoldStyle.Render("TYPE")+"\t"+BoldStyle.Render("CATEGORY")+"\t"+
		BoldStyle.Render("DESCRIPTION")+"\t"+BoldStyle.Render("ID"))
	for _, txn := range txns {
		category := "-"
		if txn.CategoryID != nil {
			category = categoryNames[*txn.CategoryID]
			if category == "" {
				category = model.CategoryKey(*txn.CategoryID)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.Date.Format(dateLayout),
			txn.Amount.StringFixed(2),
			txn.Type,
			category,
			describe(txn.Description),
			SubtleStyle.Render(txn.ID))
	}
	return tw.Flush()
}

// Duplicates prints a scan report.
func (r *Renderer) Duplicates(report *model.DuplicateReport) error {
	if report.Count == 0 {
		_, err := fmt.Fprintln(r.w, FormatSuccess("No likely duplicates found"))
		return err
	}

	fmt.Fprintln(r.w, FormatTitle(fmt.Sprintf("%d likely duplicate pair(s)", report.Count)))
	for _, pair := range report.Duplicates {
		body := strings.Join([]string{
			fmt.Sprintf("original   %s  %s  %s", pair.Original.Date.Format(dateLayout),
				pair.Original.Amount.StringFixed(2), describe(pair.Original.Description)),
			fmt.Sprintf("duplicate  %s  %s  %s", pair.Duplicate.Date.Format(dateLayout),
				pair.Duplicate.Amount.StringFixed(2), describe(pair.Duplicate.Description)),
			SubtleStyle.Render(fmt.Sprintf("%s / %s", pair.Original.ID, pair.Duplicate.ID)),
		}, "\n")
		title := fmt.Sprintf("similarity %.2f, %d day(s) apart", pair.Similarity, pair.DaysDiff)
		if _, err := fmt.Fprintln(r.w, RenderBox(title, body)); err != nil {
			return err
		}
	}
	return nil
}

// DuplicateCheck prints the outcome of a point check.
func (r *Renderer) DuplicateCheck(result *model.DuplicateCheckResult) error {
	if !result.IsDuplicate {
		_, err := fmt.Fprintln(r.w, FormatSuccess("No matching transactions"))
		return err
	}

	fmt.Fprintln(r.w, FormatWarning(fmt.Sprintf("Possible duplicate of %d transaction(s)", len(result.Matches))))
	tw := r.table()
	for _, match := range result.Matches {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			match.Date.Format(dateLayout),
			match.Amount.StringFixed(2),
			match.Description,
			SubtleStyle.Render(match.ID))
	}
	return tw.Flush()
}

// Suggestion prints a category suggestion.
func (r *Renderer) Suggestion(s *model.CategorySuggestion) error {
	if s.CategoryID == nil {
		_, err := fmt.Fprintln(r.w, FormatInfo("No confident suggestion"))
		return err
	}

	name := s.CategoryName
	if name == "" {
		name = "category " + model.CategoryKey(*s.CategoryID)
	}
	_, err := fmt.Fprintln(r.w, FormatSuccess(fmt.Sprintf("%s (confidence %.0f%%, %d similar transaction(s))",
		name, s.Confidence*100, s.MatchCount)))
	return err
}

// Patterns prints category keyword summaries.
func (r *Renderer) Patterns(patterns []model.CategoryPattern) error {
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(r.w, FormatInfo("No categorized transactions yet"))
		return err
	}

	tw := r.table()
	fmt.Fprintln(tw, BoldStyle.Render("CATEGORY")+"\t"+BoldStyle.Render("COUNT")+"\t"+BoldStyle.Render("KEYWORDS"))
	for _, p := range patterns {
		name := p.CategoryName
		if name == "" {
			name = model.CategoryKey(p.CategoryID)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, p.TransactionCount, strings.Join(p.TopKeywords, ", "))
	}
	return tw.Flush()
}

// Categories prints an owner's categories.
func (r *Renderer) Categories(categories []model.Category) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(r.w, FormatInfo("No categories found"))
		return err
	}

	tw := r.table()
	fmt.Fprintln(tw, BoldStyle.Render("ID")+"\t"+BoldStyle.Render("NAME")+"\t"+BoldStyle.Render("TYPE"))
	for _, cat := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", cat.ID, cat.Name, cat.Type)
	}
	return tw.Flush()
}

func describe(description *string) string {
	if description == nil || strings.TrimSpace(*description) == "" {
		return SubtleStyle.Render("(no description)")
	}
	return *description
}

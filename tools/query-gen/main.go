package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

func main() {
	outDir := flag.String("out", "", "Directory for generated XML menu documents")
	corpusDir := flag.String("corpus", "", "Fuzz corpus directory for generated statements")
	count := flag.Int("n", 20, "Number of documents / statements to generate")
	seed := flag.Int64("seed", 0, "RNG seed (0 takes one from the clock)")
	flag.Parse()

	if *outDir == "" && *corpusDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	fmt.Printf("🎲 Generating with seed %d\n", *seed)

	if *outDir != "" {
		writeDocs(*outDir, *count, rng)
	}
	if *corpusDir != "" {
		writeCorpus(*corpusDir, *count, rng)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

var (
	foodNames = []string{
		"Belgian Waffles", "Strawberry Waffles", "Berry-Berry Waffles",
		"French Toast", "Homestyle Breakfast", "Oatmeal Deluxe",
	}
	descriptions = []string{
		"Two of our famous waffles with plenty of real maple syrup",
		"Light Belgian waffles covered with strawberries and whipped cream",
		"Thick slices made from our homemade sourdough bread",
	}
	condFields = []string{
		"name", "price", "calories", "description",
		"food/price", "breakfast_menu/food/calories",
	}
	selectFields = []string{
		"name", "price", "calories", "food/name",
		"breakfast_menu/food/price", "FILE_NAME",
	}
	fromPaths = []string{
		"menus", "./menus", "menus/archive", "menu.xml", `"my data/menus"`,
	}
	cmpOps = []string{"=", "!=", "<>", "<", "<=", ">", ">="}
)

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}

// randomDoc builds a small menu document with a random number of entries.
func randomDoc(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString("<breakfast_menu>\n")
	n := 1 + rng.Intn(6)
	for i := 0; i < n; i++ {
		b.WriteString("  <food>\n")
		fmt.Fprintf(&b, "    <name>%s</name>\n", pick(rng, foodNames))
		fmt.Fprintf(&b, "    <price>%.2f</price>\n", 2+rng.Float64()*10)
		fmt.Fprintf(&b, "    <calories>%d</calories>\n", 300+rng.Intn(800))
		if rng.Intn(3) == 0 {
			fmt.Fprintf(&b, "    <description>%s</description>\n", pick(rng, descriptions))
		}
		b.WriteString("  </food>\n")
	}
	b.WriteString("</breakfast_menu>\n")
	return b.String()
}

// randomQuery assembles a statement from the grammar's moving parts.
func randomQuery(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	n := 1 + rng.Intn(3)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pick(rng, selectFields))
	}
	if rng.Intn(4) == 0 {
		fmt.Fprintf(&b, " FOR f IN %s", pick(rng, []string{"food", "breakfast_menu/food"}))
	}
	fmt.Fprintf(&b, " FROM %s", pick(rng, fromPaths))
	if rng.Intn(2) == 0 {
		fmt.Fprintf(&b, " WHERE %s", randomExpr(rng, 2))
	}
	if rng.Intn(3) == 0 {
		fmt.Fprintf(&b, " ORDER BY %s", pick(rng, []string{"name", "price", "calories"}))
		if rng.Intn(2) == 0 {
			fmt.Fprintf(&b, " %s", pick(rng, []string{"ASC", "DESC"}))
		}
	}
	if rng.Intn(3) == 0 {
		fmt.Fprintf(&b, " LIMIT %d", rng.Intn(100))
	}
	return b.String()
}

// randomExpr grows a WHERE tree no deeper than depth levels of nesting.
func randomExpr(rng *rand.Rand, depth int) string {
	if depth > 0 && rng.Intn(3) == 0 {
		left := randomExpr(rng, depth-1)
		right := randomExpr(rng, depth-1)
		conn := pick(rng, []string{"AND", "OR"})
		if rng.Intn(2) == 0 {
			return fmt.Sprintf("(%s %s %s)", left, conn, right)
		}
		return fmt.Sprintf("%s %s %s", left, conn, right)
	}
	field := pick(rng, condFields)
	switch rng.Intn(4) {
	case 0:
		return field + " IS NULL"
	case 1:
		return field + " IS NOT NULL"
	case 2:
		return fmt.Sprintf("%s %s %d", field, pick(rng, cmpOps), rng.Intn(1200))
	default:
		return fmt.Sprintf("%s %s '%s'", field, pick(rng, cmpOps), pick(rng, foodNames))
	}
}

// corpusEntry encodes a statement in the go fuzz corpus v1 format.
func corpusEntry(q string) string {
	return "go test fuzz v1\n" + "string(" + strconv.Quote(q) + ")\n"
}

func writeDocs(dir string, n int, rng *rand.Rand) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal(err)
	}
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("menu_%03d.xml", i))
		if err := os.WriteFile(name, []byte(randomDoc(rng)), 0o644); err != nil {
			fatal(err)
		}
	}
	fmt.Printf("✅ %d documents written to %s\n", n, dir)
}

func writeCorpus(dir string, n int, rng *rand.Rand) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal(err)
	}
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("gen_%03d", i))
		if err := os.WriteFile(name, []byte(corpusEntry(randomQuery(rng))), 0o644); err != nil {
			fatal(err)
		}
	}
	fmt.Printf("✅ %d corpus entries written to %s\n", n, dir)
}

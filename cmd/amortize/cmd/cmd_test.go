package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/amortization-engine/amortization"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var carLoan = []string{"--principal", "10000", "--rate", "0.1", "--periods", "12"}

func TestSchedule_Table(t *testing.T) {
	out, err := run(t, append([]string{"schedule"}, carLoan...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 13)
	assert.Contains(t, lines[0], "Period")
	assert.Contains(t, lines[1], "879.16")
	assert.Contains(t, lines[1], "9,204.17")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[12]), "0.00"))
}

func TestSchedule_Summary(t *testing.T) {
	args := append([]string{"schedule"}, carLoan...)
	out, err := run(t, append(args, "--payment", "1000", "--summary")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Payment:         1,000.00")
	assert.Contains(t, out, "Paid off in:     11")
	assert.Contains(t, out, "Periods:         12")
}

func TestSchedule_SimpleInterest(t *testing.T) {
	args := append([]string{"schedule"}, carLoan...)
	out, err := run(t, append(args, "--interest-mode", "simple", "--summary")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Total interest:  549.89")
}

func TestSchedule_CSV(t *testing.T) {
	args := append([]string{"schedule"}, carLoan...)
	out, err := run(t, append(args, "--format", "csv")...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "period,payment,interest,principal,balance", lines[0])
	assert.Equal(t, "1,879.16,83.33,795.83,9204.17", lines[1])
}

func TestSchedule_Files(t *testing.T) {
	args := append([]string{"schedule"}, carLoan...)

	_, err := run(t, append(args, "--format", "xlsx")...)
	assert.ErrorContains(t, err, "--out is required")

	path := filepath.Join(t.TempDir(), "loan.pdf")
	_, err = run(t, append(args, "--format", "pdf", "--out", path)...)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = run(t, append(args, "--format", "docx", "--out", path)...)
	assert.Error(t, err)
}

func TestSchedule_Errors(t *testing.T) {
	args := append([]string{"schedule"}, carLoan...)

	_, err := run(t, append(args, "--payment", "500")...)
	assert.ErrorContains(t, err, "computed as 879")

	_, err = run(t, append(args, "--interest-mode", "compound")...)
	assert.Error(t, err)

	_, err = run(t, append(args, "--interest-mode", "2")...)
	assert.ErrorIs(t, err, amortization.ErrInvalidInterestMode)

	_, err = run(t, append(args, "--frequency", "hourly")...)
	assert.Error(t, err)

	_, err = run(t, "schedule", "--principal", "10000")
	assert.Error(t, err)
}

func TestPayment(t *testing.T) {
	out, err := run(t, append([]string{"payment"}, carLoan...)...)
	require.NoError(t, err)
	assert.Equal(t, "879.16 per period (monthly, 12 periods)\n", out)

	out, err = run(t, "payment", "--principal", "100000", "--rate", "0.05", "--periods", "30", "--frequency", "annually")
	require.NoError(t, err)
	assert.Equal(t, "6,505.14 per period (annually, 30 periods)\n", out)
}

func TestPeriods(t *testing.T) {
	out, err := run(t, "periods", "--principal", "10000", "--rate", "0.1", "--payment", "1000")
	require.NoError(t, err)
	assert.Equal(t, "11 monthly periods\n", out)

	_, err = run(t, "periods", "--principal", "10000", "--rate", "0.1", "--payment", "50")
	assert.Error(t, err)
}

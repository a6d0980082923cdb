package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectLabel_ComingDue(t *testing.T) {
	assert.Equal(t, "Coming Due", SubjectLabel(-10))
	assert.Equal(t, "Coming Due", SubjectLabel(0))
}

func TestSubjectLabel_Overdue(t *testing.T) {
	assert.Equal(t, "Overdue", SubjectLabel(1))
	assert.Equal(t, "Overdue", SubjectLabel(29))
}

func TestSubjectLabel_Buckets(t *testing.T) {
	assert.Equal(t, "30+ Days Past Due", SubjectLabel(30))
	assert.Equal(t, "30+ Days Past Due", SubjectLabel(39))
	assert.Equal(t, "40+ Days Past Due", SubjectLabel(40))
	assert.Equal(t, "40+ Days Past Due", SubjectLabel(47))
	assert.Equal(t, "110+ Days Past Due", SubjectLabel(111))
}

func TestOverduePhrase_NotYetDue(t *testing.T) {
	assert.Equal(t, "", OverduePhrase(0))
	assert.Equal(t, "", OverduePhrase(-5))
}

func TestOverduePhrase_Buckets(t *testing.T) {
	assert.Equal(t, "now past due", OverduePhrase(1))
	assert.Equal(t, "now past due", OverduePhrase(3))
	assert.Equal(t, "over a week past due", OverduePhrase(4))
	assert.Equal(t, "over a week past due", OverduePhrase(10))
	assert.Equal(t, "nearing two weeks past due", OverduePhrase(11))
	assert.Equal(t, "nearing two weeks past due", OverduePhrase(13))
	assert.Equal(t, "over two weeks past due", OverduePhrase(14))
	assert.Equal(t, "over two weeks past due", OverduePhrase(20))
	assert.Equal(t, "over three weeks past due", OverduePhrase(21))
	assert.Equal(t, "over three weeks past due", OverduePhrase(27))
	assert.Equal(t, "nearing a month past due", OverduePhrase(28))
	assert.Equal(t, "nearing a month past due", OverduePhrase(29))
}

func TestOverduePhrase_Weeks(t *testing.T) {
	assert.Equal(t, "over 4 weeks past due", OverduePhrase(30))
	assert.Equal(t, "over 6 weeks past due", OverduePhrase(45))
}

package funding

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFunding(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Funding Suite")
}

package itemtests

import (
	"context"

	"github.com/contract-tests/items-contract-tests/fakedata"
	"github.com/contract-tests/items-contract-tests/framework"
)

func RunTestSuite(
	params SuiteParams,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	if params.Data == nil {
		params.Data = fakedata.NewGenerator(0)
	}
	if params.Context == nil {
		params.Context = context.Background()
	}
	env := &environment{params: params}

	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)

		t.Run("auth", DoAuthTests)
		t.Run("CRUD", DoCRUDTests)
		t.Run("validation", DoValidationTests)
		t.Run("nonexistent items", DoNonexistentItemTests)
	})
}

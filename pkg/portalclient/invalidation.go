package portalclient

// Mutation classifies the write operations the invalidation graph knows
// about. Create, update and delete on one entity share a kind; the
// interview side effects (analysis, question generation) and the predicted
// candidate writes have their own because their blast radius differs.
type Mutation string

const (
	MutationCompanyWrite      Mutation = "company.write"
	MutationDepartmentWrite   Mutation = "department.write"
	MutationJobWrite          Mutation = "job.write"
	MutationApplicationWrite  Mutation = "application.write"
	MutationInterviewWrite    Mutation = "interview.write"
	MutationInterviewAnalysis Mutation = "interview.analysis"
	MutationPredictedWrite    Mutation = "predicted.write"
)

// invalidations is the whole dependency graph in one table: after a
// mutation of the given kind succeeds, every cached query of the listed
// entities is marked stale. Jobs embed company and department data, so
// writes to either spill over into jobs; interview changes can surface new
// predictions or move the application along, so they spill into both.
var invalidations = map[Mutation][]Entity{
	MutationCompanyWrite:      {EntityCompany, EntityJob},
	MutationDepartmentWrite:   {EntityDepartment, EntityJob},
	MutationJobWrite:          {EntityJob},
	MutationApplicationWrite:  {EntityApplication},
	MutationInterviewWrite:    {EntityInterview, EntityApplication, EntityPredicted},
	MutationInterviewAnalysis: {EntityInterview, EntityPredicted},
	MutationPredictedWrite:    {EntityPredicted, EntityInterview},
}

// Invalidate applies the graph for one successful mutation. Entries are
// independently marked stale; no ordering is guaranteed across the set.
func (c *QueryCache) Invalidate(m Mutation) {
	for _, entity := range invalidations[m] {
		c.MarkEntityStale(entity)
	}
}

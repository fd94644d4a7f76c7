package provisioning_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/schema"
	ntest "github.com/soulscript/notionkit/internal/testing"
)

var _ = Describe("Workspace provisioning", func() {
	var (
		fake    *ntest.FakeNotion
		tracker *provisioning.Tracker
		orch    *provisioning.Orchestrator
		ctx     context.Context
	)

	BeforeEach(func() {
		fake = ntest.NewFakeNotion(GinkgoT())
		tracker = provisioning.NewTracker()
		orch = provisioning.NewOrchestrator(fake.Client(),
			provisioning.WithObserver(provisioning.NewLogObserver(GinkgoLogr)))
		ctx = context.Background()
	})

	steps := func() []string {
		var out []string
		for _, s := range tracker.History() {
			out = append(out, s.Step+"="+string(s.State))
		}
		return out
	}

	Context("when the credential is rejected", func() {
		It("stops at connectivity with a single error entry", func() {
			orch = provisioning.NewOrchestrator(notion.NewClient("wrong", notion.WithBaseURL(fake.Server.URL)))

			_, err := orch.Run(ctx, parentID, tracker, provisioning.Options{})

			var authErr *notion.AuthError
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &authErr)).To(BeTrue())
			Expect(steps()).To(Equal([]string{"Connectivity=error"}))
		})
	})

	Context("when the tasks database cannot be created", func() {
		BeforeEach(func() {
			fake.FailDatabase("Development Tasks", http.StatusBadGateway)
		})

		It("reports which databases exist and runs nothing further", func() {
			_, err := orch.Run(ctx, parentID, tracker, provisioning.Options{})

			var partial *provisioning.PartialProvisioningError
			Expect(errors.As(err, &partial)).To(BeTrue())
			Expect(partial.Created).To(ConsistOf(schema.KeyIssues))
			Expect(partial.Missing).To(Equal([]schema.Key{schema.KeyTasks, schema.KeyFeatures}))
			Expect(steps()).To(Equal([]string{"Connectivity=success", "DatabaseCreation=error"}))
			Expect(fake.CallCount(http.MethodPost, "/pages")).To(BeZero())
		})

		It("leaves the created database in place", func() {
			_, _ = orch.Run(ctx, parentID, tracker, provisioning.Options{})

			Expect(fake.Databases()).To(HaveLen(1))
			Expect(fake.Databases()[0].Title).To(Equal("Issues & Bugs"))
		})
	})

	Context("when one documentation page fails", func() {
		BeforeEach(func() {
			fake.FailPage("Development Guide", http.StatusInternalServerError)
		})

		It("succeeds and lists the failure separately", func() {
			res, err := orch.Run(ctx, parentID, tracker, provisioning.Options{})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Documentation).To(HaveLen(2))
			Expect(res.Failures).To(HaveLen(1))
			Expect(res.Failures[0].Item).To(Equal("Development Guide"))
			Expect(steps()).To(Equal([]string{
				"Connectivity=success",
				"DatabaseCreation=success",
				"Documentation=success",
				"Documentation: Development Guide=error",
				"SampleData=success",
				"Completion=success",
			}))
		})
	})

	Context("on the happy path", func() {
		It("creates the full workspace", func() {
			res, err := orch.Run(ctx, parentID, tracker, provisioning.Options{})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Workspace.Complete()).To(BeTrue())
			ids := []string{
				res.Workspace.IssuesDatabaseID,
				res.Workspace.TasksDatabaseID,
				res.Workspace.FeaturesDatabaseID,
			}
			Expect(ids).To(HaveEach(Not(BeEmpty())))
			Expect(ids[0]).NotTo(Equal(ids[1]))
			Expect(ids[0]).NotTo(Equal(ids[2]))
			Expect(ids[1]).NotTo(Equal(ids[2]))
			Expect(res.Documentation).To(HaveLen(3))
			Expect(res.Samples).To(HaveLen(3))

			last, ok := tracker.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Step).To(Equal("Completion"))
			Expect(last.State).To(Equal(provisioning.StateSuccess))
		})

		It("is idempotent when re-run with the returned handle", func() {
			first, err := orch.Run(ctx, parentID, nil, provisioning.Options{})
			Expect(err).NotTo(HaveOccurred())

			second, err := orch.Run(ctx, parentID, tracker, provisioning.Options{Existing: first.Workspace})
			Expect(err).NotTo(HaveOccurred())

			Expect(fake.Databases()).To(HaveLen(3))
			Expect(fake.Pages(first.Workspace.IssuesDatabaseID)).To(HaveLen(1))
			Expect(second.Documentation).To(HaveEach(HaveField("Reused", BeTrue())))
		})

		It("streams snapshots to subscribers", func() {
			snapshots, cancel := tracker.Subscribe()
			defer cancel()

			_, err := orch.Run(ctx, parentID, tracker, provisioning.Options{})
			Expect(err).NotTo(HaveOccurred())

			var latest []provisioning.StepStatus
			Eventually(snapshots).Should(Receive(&latest))
			Expect(latest).NotTo(BeEmpty())
			Expect(latest[len(latest)-1].Step).To(Equal("Completion"))
		})
	})
})

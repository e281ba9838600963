// Package resumerank ranks resumes against a job description in-process.
//
// A Client combines semantic similarity from an embedding model with keyword
// coverage of the job description and returns a ranked list with per-candidate
// feedback:
//
//	client, _ := resumerank.New(ctx, resumerank.WithEmbedder(myEmbedder))
//	ranking, _ := client.Rank(ctx, resumerank.RankRequest{
//	    JobDescription: jobText,
//	    Documents: []resumerank.Document{
//	        {ID: "alice.pdf", Text: aliceText},
//	        {ID: "bob.docx", Text: bobText},
//	    },
//	})
//	for _, r := range ranking.Results {
//	    fmt.Println(r.Rank, r.DocumentID, r.CompositeScore)
//	}
//	xlsx, _ := client.Workbook(ctx, ranking.RunID)
//
// Runs are kept in memory by default. WithValkey or WithRedis persists them with
// a TTL and caches embeddings across runs.
package resumerank

// Package staging writes uploaded audio to uniquely named local files so a
// speech backend can read them by path, and removes them afterwards.
//
//	stager := staging.New(staging.Config{Dir: os.TempDir()})
//	f, err := stager.Stage(upload, "meeting.mp3")
//	if err != nil {
//	    return err
//	}
//	defer f.Remove()
package staging

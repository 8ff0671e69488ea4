package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const rootBackupsFolderName = "liftlog-delivery-log-backup"

// DriveSink stores delivery log backup files in a Google Drive folder.
type DriveSink struct {
	service         *drive.Service
	shareWithEmail  string
	backupsFolderId string
}

func NewDriveSink(ctx context.Context, credentialsJson []byte, shareWithEmail string) (*DriveSink, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	s := &DriveSink{
		service:        driveService,
		shareWithEmail: shareWithEmail,
	}

	rootFolderQuery := fmt.Sprintf("mimeType = 'application/vnd.google-apps.folder' and trashed = false and name = '%s'", rootBackupsFolderName)
	foundFolders, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	backupsFolderId := ""
	switch {
	case len(foundFolders.Files) == 1:
		rbf := foundFolders.Files[0]
		log.Debugf("root backups folder found, %s: %s", rbf.Name, rbf.Id)
		backupsFolderId = rbf.Id
	case len(foundFolders.Files) == 0:
		log.Debugln("root backups folder not found, will recreate")
	default:
		rbf := foundFolders.Files[0]
		log.Warnf("found %d root backups folders, will take the first one: %s", len(foundFolders.Files), rbf.Id)
		backupsFolderId = rbf.Id
	}

	if backupsFolderId == "" {
		backupsFolderId, err = s.createRootBackupsFolder()
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Debugf("new root backups folder created: %s", backupsFolderId)
	}

	s.backupsFolderId = backupsFolderId

	return s, nil
}

func (s *DriveSink) NewestBackupTime(_ context.Context) (time.Time, error) {
	filesQuery := fmt.Sprintf("'%s' in parents and mimeType != 'application/vnd.google-apps.folder' and trashed = false", s.backupsFolderId)
	backups, err := s.service.
		Files.List().
		Q(filesQuery).
		Fields("files(id, name, createdTime)").
		Do()
	if err != nil {
		return time.Time{}, err
	}

	newest := time.Time{}
	for _, file := range backups.Files {
		createdAt, err := time.Parse(time.RFC3339, file.CreatedTime)
		if err != nil {
			log.Errorf("error parsing created at for file %s: %s", file.Name, err)
			continue
		}
		if createdAt.After(newest) {
			newest = createdAt
		}
	}

	return newest, nil
}

func (s *DriveSink) Upload(_ context.Context, fileName string, data []byte) error {
	fileMeta := &drive.File{
		Name: fileName,
		// https://developers.google.com/drive/api/v3/mime-types
		MimeType: "application/vnd.google-apps.file",
		Parents:  []string{s.backupsFolderId},
	}

	backupFile, err := s.service.
		Files.Create(fileMeta).
		Fields("id, parents").
		Media(bytes.NewReader(data)).
		Do()
	if err != nil {
		return fmt.Errorf("%s: failed to create backup file: %w", fileName, err)
	}

	permissionId, err := s.updateFilePermission(backupFile.Id)
	if err != nil {
		return fmt.Errorf("%s: failed to create additional permission: %w", fileName, err)
	}

	log.Debugf("%s: backup file [permission %s] saved: %s", fileName, permissionId, backupFile.Id)

	return nil
}

func (s *DriveSink) createRootBackupsFolder() (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     rootBackupsFolderName,
		MimeType: "application/vnd.google-apps.folder",
	}

	bfRes, err := s.service.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	if pId, err := s.updateFilePermission(bfRes.Id); err != nil {
		return bfRes.Id, fmt.Errorf("failed to create additional permission for root backups folder: %w", err)
	} else {
		log.Debugf("permission %s created for root backups folder %s", pId, bfRes.Id)
	}

	return bfRes.Id, nil
}

func (s *DriveSink) updateFilePermission(fileId string) (string, error) {
	permission := &drive.Permission{
		EmailAddress: s.shareWithEmail,
		Type:         "user",
		Role:         "reader",
	}

	createdPermission, err := s.service.Permissions.
		Create(fileId, permission).
		Do()
	if err != nil {
		return "", err
	}

	return createdPermission.Id, nil
}

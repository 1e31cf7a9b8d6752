package infra

import (
	"os"
	"path"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pyama86/slack-concierge/domain/model"
)

type DataBase struct {
	db *gorm.DB
}

func NewDataBase(dbpath string) (*DataBase, error) {
	if dbpath == "" {
		dbpath = "./db/slack_concierge.db"
	}
	if !path.IsAbs(dbpath) {
		dbpath = path.Join(os.Getenv("PWD"), dbpath)
	}
	db, err := gorm.Open("sqlite3", dbpath)
	if err != nil {
		return nil, err
	}
	db.AutoMigrate(&model.LogEntry{})
	return &DataBase{db: db}, nil
}

func (d *DataBase) AppendLog(entry *model.LogEntry) error {
	return d.db.Create(entry).Error
}

func (d *DataBase) TrimLogs(keep int) error {
	var count int
	if err := d.db.Model(&model.LogEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count <= keep {
		return nil
	}
	var oldest []model.LogEntry
	if err := d.db.Select("id").Order("id asc").Limit(count - keep).Find(&oldest).Error; err != nil {
		return err
	}
	ids := make([]uint, 0, len(oldest))
	for _, e := range oldest {
		ids = append(ids, e.ID)
	}
	return d.db.Where("id IN (?)", ids).Delete(&model.LogEntry{}).Error
}

func (d *DataBase) RecentLogs(limit int) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	err := d.db.Order("id desc").Limit(limit).Find(&entries).Error
	return entries, err
}
